// Package cuisine holds the static cuisine suggestion catalog and the
// dropdown menu state built on top of it.
package cuisine

// Catalog maps a cuisine name to its ordered dish suggestions
type Catalog struct {
	order  []string
	dishes map[string][]string
}

// NewCatalog builds a catalog. Names keep the given order. Dish slices are copied.
func NewCatalog(names []string, dishes map[string][]string) *Catalog {
	c := &Catalog{
		order:  make([]string, 0, len(names)),
		dishes: make(map[string][]string, len(names)),
	}
	for _, name := range names {
		if _, dup := c.dishes[name]; dup {
			continue
		}
		c.order = append(c.order, name)
		c.dishes[name] = append([]string{}, dishes[name]...)
	}
	return c
}

// Cuisines returns the cuisine names in display order
func (c *Catalog) Cuisines() []string {
	return append([]string{}, c.order...)
}

// Has reports whether the catalog knows the cuisine
func (c *Catalog) Has(name string) bool {
	_, ok := c.dishes[name]
	return ok
}

// Dishes returns a copy of the suggestions for a cuisine
func (c *Catalog) Dishes(name string) []string {
	return append([]string{}, c.dishes[name]...)
}

// Entry is one cuisine with its suggestions
type Entry struct {
	Cuisine string   `json:"cuisine"`
	Dishes  []string `json:"dishes"`
}

// Entries returns the whole catalog in display order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Entry{Cuisine: name, Dishes: c.Dishes(name)})
	}
	return out
}

// DefaultCatalog is the catalog served by the page
var DefaultCatalog = NewCatalog(
	[]string{"Italian", "French", "Mexican", "Chinese", "Indian", "Japanese", "Thai", "Greek"},
	map[string][]string{
		"Italian":  {"pasta", "pizza", "risotto", "lasagna", "gnocchi", "tiramisu", "carbonara", "bruschetta"},
		"French":   {"soup", "crepes", "ratatouille", "quiche", "macarons", "boeuf bourguignon", "coq au vin", "crème brûlée"},
		"Mexican":  {"tacos", "enchiladas", "burritos", "salsa", "guacamole", "churros", "quesadilla", "mole poblano"},
		"Chinese":  {"noodles", "stir-fry", "dumplings", "fried rice", "spring rolls", "Peking duck", "kung pao chicken", "hot pot"},
		"Indian":   {"curry", "biryani", "naan", "samosa", "tikka masala", "jalebi", "butter chicken", "dal makhani"},
		"Japanese": {"sushi", "ramen", "tempura", "miso soup", "yakitori", "mochi", "udon", "teriyaki chicken"},
		"Thai":     {"curry", "pad thai", "tom yum soup", "stir-fry", "spring rolls", "mango sticky rice", "green curry", "pad see ew"},
		"Greek":    {"salad", "gyros", "souvlaki", "moussaka", "spanakopita", "baklava", "tzatziki", "dolmades"},
	},
)
