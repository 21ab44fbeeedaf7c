package models

// ThemeKind identifies a card rendering variant
type ThemeKind int

const (
	ThemeUnknown ThemeKind = iota
	ThemeGradientPurple
	ThemeGradientBlue
	ThemeGradientOrange
	ThemeGradientGreen
	ThemeGradientPink
	ThemeModern
	ThemeMinimal
	ThemeRathiGroup
)

// Layout selects the card markup family for a theme
type Layout string

const (
	LayoutStandard Layout = "standard"
	LayoutBranded  Layout = "branded"
)

// Theme carries the render parameters of a ThemeKind
type Theme struct {
	Kind     ThemeKind `json:"-"`
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Class    string    `json:"class"`
	Layout   Layout    `json:"layout"`
	Fallback bool      `json:"fallback,omitempty"`
}

var themeCatalog = []Theme{
	{Kind: ThemeGradientPurple, ID: "card-gradient-purple", Name: "Purple Gradient", Class: "card-gradient-purple", Layout: LayoutStandard},
	{Kind: ThemeGradientBlue, ID: "card-gradient-blue", Name: "Blue Gradient", Class: "card-gradient-blue", Layout: LayoutStandard},
	{Kind: ThemeGradientOrange, ID: "card-gradient-orange", Name: "Orange Gradient", Class: "card-gradient-orange", Layout: LayoutStandard},
	{Kind: ThemeGradientGreen, ID: "card-gradient-green", Name: "Green Gradient", Class: "card-gradient-green", Layout: LayoutStandard},
	{Kind: ThemeGradientPink, ID: "card-gradient-pink", Name: "Pink Gradient", Class: "card-gradient-pink", Layout: LayoutStandard},
	{Kind: ThemeModern, ID: "card-modern", Name: "Modern", Class: "card-modern", Layout: LayoutStandard},
	{Kind: ThemeMinimal, ID: "card-minimal", Name: "Minimal", Class: "card-minimal", Layout: LayoutStandard},
	{Kind: ThemeRathiGroup, ID: "card-rathi-group", Name: "Rathi Group", Class: "card-rathi-group", Layout: LayoutBranded},
}

var themesByID = func() map[string]Theme {
	m := make(map[string]Theme, len(themeCatalog))
	for _, t := range themeCatalog {
		m[t.ID] = t
	}
	return m
}()

// Themes returns the theme catalog in picker order
func Themes() []Theme {
	out := make([]Theme, len(themeCatalog))
	copy(out, themeCatalog)
	return out
}

// ResolveTheme maps a theme id to its render parameters.
// Unknown ids resolve to the default theme with Fallback set.
func ResolveTheme(id string) Theme {
	if t, ok := themesByID[id]; ok {
		return t
	}
	t := themesByID[DefaultTheme]
	t.Fallback = true
	return t
}

// String returns the theme id for k
func (k ThemeKind) String() string {
	for _, t := range themeCatalog {
		if t.Kind == k {
			return t.ID
		}
	}
	return "unknown"
}
