package key

import (
	"errors"
	"testing"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		spec string
		want []Event
	}{
		{"dw", []Event{Rune('d'), Rune('w')}},
		{"A", []Event{Rune('A')}},
		{"<Esc>", []Event{Escape}},
		{"<esc>", []Event{Escape}},
		{"<CR>", []Event{Enter}},
		{"<C-w>j", []Event{Ctrl('w'), Rune('j')}},
		{"<C-W>", []Event{Ctrl('w')}},
		{"<S-a>", []Event{Rune('A')}},
		{"<S-Tab>", []Event{{Key: KeyTab, Modifiers: ModShift}}},
		{"<lt>", []Event{Rune('<')}},
		{"<Space>x", []Event{Rune(' '), Rune('x')}},
		{"<Bar>", []Event{Rune('|')}},
		{"<F5>", []Event{Special(KeyF5)}},
		{"<Plug>(surround)", append([]Event{Plug}, FromString("(surround)")...)},
		{"<x>", []Event{Rune('<'), Rune('x'), Rune('>')}},
		{"a<b", []Event{Rune('a'), Rune('<'), Rune('b')}},
		{"<A-x>", []Event{{Key: KeyRune, Rune: 'x', Modifiers: ModAlt}}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSequence(tt.spec)
			if err != nil {
				t.Fatalf("ParseSequence(%q) error = %v", tt.spec, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseSequence(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseSequence(""); !errors.Is(err, ErrEmptySpec) {
		t.Errorf("ParseSequence(\"\") error = %v, want ErrEmptySpec", err)
	}
	if _, err := Parse("dw"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("Parse(\"dw\") error = %v, want ErrInvalidSpec", err)
	}
	if _, err := ParseSequence("a\xffb"); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("ParseSequence(bad utf8) error = %v, want ErrInvalidSpec", err)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	specs := []string{
		"dw",
		"<Esc>",
		"<C-w>j",
		"<lt>leader",
		"<Space>",
		"<Bar>",
		"<S-Tab>",
		"<Plug>x",
		"<F12>",
		"\"ayy",
	}
	for _, spec := range specs {
		events := MustParseSequence(spec)
		formatted := Format(events)
		again, err := ParseSequence(formatted)
		if err != nil {
			t.Errorf("ParseSequence(Format(%q)) error = %v", spec, err)
			continue
		}
		if !Equal(events, again) {
			t.Errorf("round trip of %q gave %q", spec, formatted)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		events []Event
		want   string
	}{
		{[]Event{Ctrl('v')}, "<C-v>"},
		{[]Event{Escape}, "<Esc>"},
		{[]Event{Enter}, "<CR>"},
		{[]Event{Rune('<')}, "<lt>"},
		{FromString("ab"), "ab"},
	}
	for _, tt := range tests {
		if got := Format(tt.events); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.events, got, tt.want)
		}
	}
}

func TestEventChar(t *testing.T) {
	tests := []struct {
		ev   Event
		want rune
	}{
		{Rune('x'), 'x'},
		{Tab, '\t'},
		{Enter, '\n'},
		{Escape, 0},
		{Ctrl('a'), 1},
		{Special(KeyUp), 0},
	}
	for _, tt := range tests {
		if got := tt.ev.Char(); got != tt.want {
			t.Errorf("%v.Char() = %d, want %d", tt.ev, got, tt.want)
		}
	}
}

func TestIsClose(t *testing.T) {
	for _, ev := range []Event{Escape, Ctrl('['), Ctrl('c')} {
		if !ev.IsClose() {
			t.Errorf("%v.IsClose() = false, want true", ev)
		}
	}
	if Rune('c').IsClose() {
		t.Error("c.IsClose() = true, want false")
	}
}
