// Package theme holds the layout token overrides applied by the HTML view.
package theme

// Display maps layout display modes to the CSS value emitted for them.
type Display struct {
	Flex        string `mapstructure:"flex" json:"flex"`
	Block       string `mapstructure:"block" json:"block"`
	InlineBlock string `mapstructure:"inline-block" json:"inlineBlock"`
	Grid        string `mapstructure:"grid" json:"grid"`
}

// Theme is passed to the renderer on every call. There is no global theme.
type Theme struct {
	Display Display `mapstructure:"display" json:"display"`
}

// Default returns the stock display tokens.
func Default() Theme {
	return Theme{
		Display: Display{
			Flex:        "flex",
			Block:       "block",
			InlineBlock: "inline-block",
			Grid:        "grid",
		},
	}
}

// Merge returns t with every empty token filled from Default.
func (t Theme) Merge() Theme {
	d := Default()
	if t.Display.Flex == "" {
		t.Display.Flex = d.Display.Flex
	}
	if t.Display.Block == "" {
		t.Display.Block = d.Display.Block
	}
	if t.Display.InlineBlock == "" {
		t.Display.InlineBlock = d.Display.InlineBlock
	}
	if t.Display.Grid == "" {
		t.Display.Grid = d.Display.Grid
	}
	return t
}
