package model

// Filter names a view over the todo collection.
type Filter string

// Filters, in sidebar order.
const (
	FilterAll       Filter = "all"
	FilterToday     Filter = "today"
	FilterUpcoming  Filter = "upcoming"
	FilterCompleted Filter = "completed"
	FilterPersonal  Filter = Filter(CategoryPersonal)
	FilterWork      Filter = Filter(CategoryWork)
	FilterShopping  Filter = Filter(CategoryShopping)
	FilterHealth    Filter = Filter(CategoryHealth)
	FilterOther     Filter = Filter(CategoryOther)
)

var filterTitles = map[Filter]string{
	FilterAll:       "All Tasks",
	FilterToday:     "Today",
	FilterUpcoming:  "Upcoming",
	FilterCompleted: "Completed",
	FilterPersonal:  "Personal",
	FilterWork:      "Work",
	FilterShopping:  "Shopping",
	FilterHealth:    "Health",
	FilterOther:     "Other",
}

// Filters returns every known filter in sidebar order.
func Filters() []Filter {
	return []Filter{
		FilterAll, FilterToday, FilterUpcoming, FilterCompleted,
		FilterPersonal, FilterWork, FilterShopping, FilterHealth, FilterOther,
	}
}

// Title returns the heading shown above the filtered list.
// Unknown filters behave like "all" and share its title.
func (f Filter) Title() string {
	if title, ok := filterTitles[f]; ok {
		return title
	}
	return filterTitles[FilterAll]
}

// Known reports whether f is one of the named filters.
func (f Filter) Known() bool {
	_, ok := filterTitles[f]
	return ok
}

// Category returns the category a category filter selects.
func (f Filter) Category() (Category, bool) {
	c := Category(f)
	return c, c.Valid()
}
