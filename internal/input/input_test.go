package input_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ja-he/workbench/internal/control/action"
	"github.com/ja-he/workbench/internal/input"
)

func runeKey(r rune) input.Key { return input.Key{Key: tcell.KeyRune, Ch: r} }

func TestParseKeyspec(t *testing.T) {

	t.Run("valid", func(t *testing.T) {
		expectValid := func(s input.Keyspec) []input.Key {
			keys, err := input.ParseKeyspec(s)
			if err != nil {
				t.Error("unexpected error on valid spec:", err.Error())
			}
			if keys == nil {
				t.Error("unexpected nil keys on valid spec")
			}
			return keys
		}

		t.Run("empty", func(t *testing.T) {
			if len(expectValid("")) != 0 {
				t.Error("expected empty seq of keys")
			}
		})
		t.Run("single", func(t *testing.T) {
			keys := expectValid("x")
			if len(keys) != 1 || keys[0] != runeKey('x') {
				t.Error("expected single key 'x', got", keys)
			}
		})
		t.Run("<c-a>", func(t *testing.T) {
			keys := expectValid("<c-a>")
			if len(keys) != 1 || (keys[0] != input.Key{Key: tcell.KeyCtrlA}) {
				t.Error("expected single key <c-a>, got", keys)
			}
		})
		t.Run("<space>", func(t *testing.T) {
			keys := expectValid("<Space>")
			if len(keys) != 1 || keys[0] != runeKey(' ') {
				t.Error("expected single key <space>, got", keys)
			}
		})
		t.Run("with special", func(t *testing.T) {
			keys := expectValid("x<c-w>z")
			expected := []input.Key{runeKey('x'), {Key: tcell.KeyCtrlW}, runeKey('z')}
			if len(keys) != len(expected) {
				t.Fatal("expected three keys, got", keys)
			}
			for i := range expected {
				if keys[i] != expected[i] {
					t.Errorf("key %d is %s, expected %s", i, keys[i], expected[i])
				}
			}
		})
	})

	t.Run("invalid", func(t *testing.T) {
		for _, spec := range []input.Keyspec{"c-w>", "<c-w", "<c-w<c-a>", "<c+a>", "<nope>"} {
			t.Run(string(spec), func(t *testing.T) {
				keys, err := input.ParseKeyspec(spec)
				if err == nil {
					t.Error("unexpectedly no err on invalid spec")
				}
				if keys != nil {
					t.Error("unexpected key seq on invalid spec:", keys)
				}
			})
		}
	})
}

func TestKeyString(t *testing.T) {
	if s := (input.Key{Key: tcell.KeyTab}).String(); s != "<tab>" {
		t.Errorf("tab rendered as '%s'", s)
	}
	if s := (input.Key{Key: tcell.KeyCtrlW}).String(); s != "<c-w>" {
		t.Errorf("ctrl-w rendered as '%s'", s)
	}
	if s := runeKey('q').String(); s != "q" {
		t.Errorf("q rendered as '%s'", s)
	}
}

func TestTree(t *testing.T) {

	t.Run("empty tree applies nothing", func(t *testing.T) {
		tree := input.EmptyTree()
		if tree.ProcessInput(runeKey('x')) {
			t.Error("empty tree claims to apply input")
		}
		if tree.CapturesInput() {
			t.Error("empty tree captures input")
		}
	})

	t.Run("sequences", func(t *testing.T) {
		xyz, ctrlA := false, false
		tree, err := input.NewTree(map[input.Keyspec]action.Action{
			"xyz":   action.NewSimple(func() string { return "xyz" }, func() { xyz = true }),
			"<c-a>": action.NewSimple(func() string { return "c-a" }, func() { ctrlA = true }),
		})
		if err != nil {
			t.Fatal(err.Error())
		}

		if tree.ProcessInput(input.Key{}) {
			t.Error("tree processes unbound input")
		}
		if !tree.ProcessInput(runeKey('x')) || !tree.CapturesInput() {
			t.Error("tree does not continue sequence")
		}
		if tree.ProcessInput(input.Key{}) {
			t.Error("tree processes invalid input in middle of sequence")
		}
		if tree.CapturesInput() {
			t.Error("tree still captures after an invalid continuation")
		}
		if !tree.ProcessInput(input.Key{Key: tcell.KeyCtrlA}) || !ctrlA {
			t.Error("<c-a> not applied")
		}
		for _, r := range "xyz" {
			if !tree.ProcessInput(runeKey(r)) {
				t.Errorf("'%c' not processed", r)
			}
		}
		if !xyz {
			t.Error("xyz not applied")
		}
		if tree.CapturesInput() {
			t.Error("tree captures after completed sequence")
		}

		help := tree.GetHelp()
		if help["xyz"] != "xyz" || help["<c-a>"] != "c-a" {
			t.Error("unexpected help:", help)
		}
	})

	t.Run("conflicting bindings", func(t *testing.T) {
		noop := action.NewSimple(func() string { return "" }, func() {})
		tree := input.EmptyTree()
		if err := tree.Bind("xy", noop); err != nil {
			t.Fatal(err.Error())
		}
		if err := tree.Bind("x", noop); err == nil {
			t.Error("binding a prefix of an existing binding succeeded")
		}
		if err := tree.Bind("xyz", noop); err == nil {
			t.Error("binding an extension of an existing binding succeeded")
		}
		if err := tree.Bind("", noop); err == nil {
			t.Error("binding the empty sequence succeeded")
		}
	})
}

type dummyProcessor struct {
	captures bool
	inputs   map[input.Key]bool
	seen     []input.Key
}

func (p *dummyProcessor) CapturesInput() bool { return p.captures }
func (p *dummyProcessor) ProcessInput(k input.Key) bool {
	p.seen = append(p.seen, k)
	return p.inputs[k]
}
func (p *dummyProcessor) GetHelp() input.Help { return input.Help{} }

func TestChain(t *testing.T) {
	x, y := runeKey('x'), runeKey('y')

	t.Run("first applicable wins", func(t *testing.T) {
		a := &dummyProcessor{inputs: map[input.Key]bool{x: true}}
		b := &dummyProcessor{inputs: map[input.Key]bool{x: true, y: true}}
		c := input.NewChain(func() []input.Processor { return []input.Processor{a, b} })

		if !c.ProcessInput(x) || len(b.seen) != 0 {
			t.Error("x should have been applied by the first processor only")
		}
		if !c.ProcessInput(y) || len(b.seen) != 1 {
			t.Error("y should have fallen through to the second processor")
		}
	})

	t.Run("capturing processor gets everything", func(t *testing.T) {
		a := &dummyProcessor{inputs: map[input.Key]bool{x: true}}
		b := &dummyProcessor{captures: true}
		c := input.NewChain(func() []input.Processor { return []input.Processor{a, b} })

		if !c.CapturesInput() {
			t.Error("chain does not capture while a member does")
		}
		if c.ProcessInput(x) {
			t.Error("capturing processor does not apply x, chain should not either")
		}
		if len(a.seen) != 0 {
			t.Error("non-capturing processor was consulted while another captured")
		}
	})
}

func TestTextProcessor(t *testing.T) {
	text := ""
	p, err := input.NewTextProcessor(
		map[input.Keyspec]action.Action{
			"<bs>": action.NewSimple(func() string { return "delete" }, func() { text = text[:len(text)-1] }),
		},
		func(r rune) { text += string(r) },
	)
	if err != nil {
		t.Fatal(err.Error())
	}
	p.ProcessInput(runeKey('h'))
	p.ProcessInput(runeKey('i'))
	p.ProcessInput(runeKey('!'))
	p.ProcessInput(input.Key{Key: tcell.KeyBackspace2})
	if text != "hi" {
		t.Errorf("text is '%s', expected 'hi'", text)
	}
	if p.ProcessInput(input.Key{Key: tcell.KeyCtrlX}) {
		t.Error("unmapped key applied")
	}

	_, err = input.NewTextProcessor(map[input.Keyspec]action.Action{"ab": nil}, func(rune) {})
	if err == nil {
		t.Error("multi-key mapping accepted")
	}
}
