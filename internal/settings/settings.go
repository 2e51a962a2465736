package settings

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Category groups transactions, fixed bills and installment debts. Entities
// reference it by ID only; deleting a category leaves those references dangling.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AppSettings is read and written as a whole.
type AppSettings struct {
	Theme              Theme      `json:"theme"`
	MonthlyBudgetLimit float64    `json:"monthlyBudgetLimit"`
	Categories         []Category `json:"categories"`
	Tags               []Tag      `json:"tags"`
}

// Defaults returns a fresh copy of the settings used when none are stored.
func Defaults() AppSettings {
	return AppSettings{
		Theme:              ThemeSystem,
		MonthlyBudgetLimit: 3000,
		Categories: []Category{
			{ID: "cat-1", Name: "Alimentação", Color: "#22c55e", Icon: "UtensilsCrossed"},
			{ID: "cat-2", Name: "Transporte", Color: "#3b82f6", Icon: "Car"},
			{ID: "cat-3", Name: "Moradia", Color: "#8b5cf6", Icon: "Home"},
			{ID: "cat-4", Name: "Saúde", Color: "#ef4444", Icon: "Heart"},
			{ID: "cat-5", Name: "Lazer", Color: "#eab308", Icon: "Gamepad2"},
			{ID: "cat-6", Name: "Outros", Color: "#64748b", Icon: "Circle"},
		},
		Tags: []Tag{},
	}
}

// CategoryByID looks a category up by ID.
func (s AppSettings) CategoryByID(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}

	return Category{}, false
}

// CategoryByName looks a category up by exact name.
func (s AppSettings) CategoryByName(name string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}

	return Category{}, false
}

// CategoryName returns the category's name, or the raw ID when it no longer exists.
func (s AppSettings) CategoryName(id string) string {
	if c, ok := s.CategoryByID(id); ok {
		return c.Name
	}

	return id
}

func (s AppSettings) normalize() AppSettings {
	if s.Categories == nil {
		s.Categories = []Category{}
	}

	if s.Tags == nil {
		s.Tags = []Tag{}
	}

	if s.Theme == "" {
		s.Theme = ThemeSystem
	}

	return s
}
