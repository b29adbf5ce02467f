package digraph

// rfc1345 lists the built-in digraphs as three-character entries: the two
// keys followed by the character they produce. Most follow RFC 1345.
const rfc1345 = `
a!à a'á a>â a?ã a:ä a0å a-ā a(ă a;ą a<ǎ a.ȧ e!è e'é e>ê e:ë
e,ȩ e-ē e(ĕ e;ę e<ě e.ė i!ì i'í i>î i?ĩ i:ï i-ī i(ĭ i;į i<ǐ
o!ò o'ó o>ô o?õ o:ö o-ō o(ŏ o;ǫ o<ǒ o.ȯ o"ő u!ù u'ú u>û u?ũ
u:ü u0ů u-ū u(ŭ u;ų u<ǔ u"ű y'ý y>ŷ y:ÿ y-ȳ A!À A'Á A>Â A?Ã
A:Ä A0Å A-Ā A(Ă A;Ą A<Ǎ A.Ȧ E!È E'É E>Ê E:Ë E,Ȩ E-Ē E(Ĕ E;Ę
E<Ě E.Ė I!Ì I'Í I>Î I?Ĩ I:Ï I-Ī I(Ĭ I;Į I<Ǐ I.İ O!Ò O'Ó O>Ô
O?Õ O:Ö O-Ō O(Ŏ O;Ǫ O<Ǒ O.Ȯ O"Ő U!Ù U'Ú U>Û U?Ũ U:Ü U0Ů U-Ū
U(Ŭ U;Ų U<Ǔ U"Ű Y'Ý Y>Ŷ Y:Ÿ Y-Ȳ c'ć c>ĉ c,ç c<č c.ċ C'Ć C>Ĉ
C,Ç C<Č C.Ċ n!ǹ n'ń n?ñ n,ņ n<ň N!Ǹ N'Ń N?Ñ N,Ņ N<Ň s'ś s>ŝ
s,ş s<š S'Ś S>Ŝ S,Ş S<Š z'ź z<ž z.ż Z'Ź Z<Ž Z.Ż g'ǵ g>ĝ g,ģ
g(ğ g<ǧ g.ġ G'Ǵ G>Ĝ G,Ģ G(Ğ G<Ǧ G.Ġ r'ŕ r,ŗ r<ř R'Ŕ R,Ŗ R<Ř
l'ĺ l,ļ l<ľ L'Ĺ L,Ļ L<Ľ t,ţ t<ť T,Ţ T<Ť d<ď D<Ď k,ķ k<ǩ K,Ķ
K<Ǩ h>ĥ h<ȟ H>Ĥ H<Ȟ j>ĵ j<ǰ J>Ĵ w>ŵ W>Ŵ a*α b*β g*γ d*δ e*ε
z*ζ y*η h*θ i*ι k*κ l*λ m*μ n*ν c*ξ o*ο p*π r*ρ *sς s*σ t*τ
u*υ f*φ x*χ q*ψ w*ω A*Α B*Β G*Γ D*Δ E*Ε Z*Ζ Y*Η H*Θ I*Ι K*Κ
L*Λ M*Μ N*Ν C*Ξ O*Ο P*Π R*Ρ S*Σ T*Τ U*Υ F*Φ X*Χ Q*Ψ W*Ω !I¡
Ct¢ Pd£ Cu¤ Ye¥ BB¦ SE§ Co© -aª <<« NO¬ Rg® 'm¯ DG° +-± 2S²
3S³ Myµ PI¶ .M· 1S¹ -oº >>» 14¼ 12½ 34¾ ?I¿ *X× -:÷ AEÆ aeæ
O/Ø o/ø ssß D-Đ d-đ THÞ thþ IJĲ ijĳ OEŒ oeœ -N– -M— '6‘ '9’
"6“ "9” .9‚ :9„ /-† /=‡ ..‥ ,.… %0‰ Eu€ =e€ TM™ ->→ <-← -!↑
-v↓ =>⇒ ==⇔ FA∀ dP∂ TE∃ /0∅ DE∆ NB∇ (-∈ *P∏ +Z∑ RT√ 00∞ AN∧
OR∨ (U∩ )U∪ In∫ !=≠ =<≤ >=≥ OK✓ XX✗ Sb∙ Db◆ 0m○ 0M● cH♥ cS♠
cD♦ cC♣
`
