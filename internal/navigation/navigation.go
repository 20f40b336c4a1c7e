// Package navigation tracks which screen of the catalog is shown.
package navigation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRoute is returned by ParsePath for paths no screen serves.
var ErrUnknownRoute = errors.New("unknown route")

// Screen identifies one view of the catalog.
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetails
	ScreenAdd
	ScreenEdit
)

func (s Screen) String() string {
	switch s {
	case ScreenDetails:
		return "details"
	case ScreenAdd:
		return "add"
	case ScreenEdit:
		return "edit"
	default:
		return "list"
	}
}

// Route is a screen plus the record it shows, if any.
type Route struct {
	Screen Screen
	ID     int
}

// Path renders the route in its canonical form.
func (r Route) Path() string {
	switch r.Screen {
	case ScreenDetails:
		return fmt.Sprintf("/books/%d", r.ID)
	case ScreenAdd:
		return "/books/add"
	case ScreenEdit:
		return fmt.Sprintf("/books/edit/%d", r.ID)
	default:
		return "/books"
	}
}

// ParsePath maps a path to a route. The empty path and "/" mean the list.
func ParsePath(path string) (Route, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Route{Screen: ScreenList}, nil
	}

	parts := strings.Split(trimmed, "/")
	if parts[0] != "books" {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	switch {
	case len(parts) == 1:
		return Route{Screen: ScreenList}, nil
	case len(parts) == 2 && parts[1] == "add":
		return Route{Screen: ScreenAdd}, nil
	case len(parts) == 2:
		id, err := parseID(parts[1])
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
		return Route{Screen: ScreenDetails, ID: id}, nil
	case len(parts) == 3 && parts[1] == "edit":
		id, err := parseID(parts[2])
		if err != nil {
			return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
		}
		return Route{Screen: ScreenEdit, ID: id}, nil
	}
	return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// Navigator is how screens ask to move to another screen.
type Navigator interface {
	ToList()
	ToDetails(id int)
	ToDetailsRaw(raw string)
	ToAdd()
	ToEdit(id int)
	Back()
}

// Router is the in-memory Navigator used by the terminal UI.
type Router struct {
	current Route
	changed func(from, to Route)
}

var _ Navigator = (*Router)(nil)

// NewRouter starts at the list screen. onChange, if non-nil, runs after
// every navigation.
func NewRouter(onChange func(from, to Route)) *Router {
	return &Router{current: Route{Screen: ScreenList}, changed: onChange}
}

// Current returns the route being shown.
func (r *Router) Current() Route {
	return r.current
}

// Go moves to route.
func (r *Router) Go(route Route) {
	from := r.current
	r.current = route
	if r.changed != nil {
		r.changed(from, route)
	}
}

// GoPath moves to the route for path, or to the list if path is unknown.
func (r *Router) GoPath(path string) error {
	route, err := ParsePath(path)
	if err != nil {
		r.ToList()
		return err
	}
	r.Go(route)
	return nil
}

func (r *Router) ToList() { r.Go(Route{Screen: ScreenList}) }

func (r *Router) ToDetails(id int) { r.Go(Route{Screen: ScreenDetails, ID: id}) }

// ToDetailsRaw opens the details screen for an id given as text. Anything
// that is not a positive integer goes to the list instead.
func (r *Router) ToDetailsRaw(raw string) {
	id, err := parseID(strings.TrimSpace(raw))
	if err != nil {
		r.ToList()
		return
	}
	r.ToDetails(id)
}

func (r *Router) ToAdd() { r.Go(Route{Screen: ScreenAdd}) }

func (r *Router) ToEdit(id int) { r.Go(Route{Screen: ScreenEdit, ID: id}) }

// Back always returns to the list.
func (r *Router) Back() { r.ToList() }
