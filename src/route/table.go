package route

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"ganak-service/src/models"
)

var ErrInvalidEndpoint = errors.New("invalid endpoint")

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

type Endpoint struct {
	Method  string
	Pattern string
	Tag     string
	Auth    bool
	Handler http.HandlerFunc
}

// Group is a named set of endpoints mounted together. Middlewares apply to
// every endpoint of the group only.
type Group struct {
	Name        string
	Middlewares []func(http.Handler) http.Handler
	Endpoints   []Endpoint
}

// Conflict records an endpoint that was dropped because an earlier group
// already claimed the same method and pattern.
type Conflict struct {
	Group    string
	Endpoint Endpoint
	Winner   string
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s %s from group %q shadowed by group %q", c.Endpoint.Method, c.Endpoint.Pattern, c.Group, c.Winner)
}

// Table is the resolved registration record: groups in order, each carrying
// only the endpoints it won.
type Table struct {
	Groups    []Group
	Conflicts []Conflict
}

var paramPattern = regexp.MustCompile(`\{[^/}]*\}`)

// routeKey identifies a route regardless of parameter names, so
// /chats/{id} and /chats/{chatID} collide.
func routeKey(method, pattern string) string {
	p := paramPattern.ReplaceAllString(pattern, "{}")
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return method + " " + p
}

func validate(group string, e Endpoint) error {
	switch {
	case !validMethods[e.Method]:
		return fmt.Errorf("%w: group %q: method %q", ErrInvalidEndpoint, group, e.Method)
	case !strings.HasPrefix(e.Pattern, "/"):
		return fmt.Errorf("%w: group %q: pattern %q must start with /", ErrInvalidEndpoint, group, e.Pattern)
	case e.Handler == nil:
		return fmt.Errorf("%w: group %q: %s %s has no handler", ErrInvalidEndpoint, group, e.Method, e.Pattern)
	}
	return nil
}

// Resolve validates groups in order. The first group to claim a method and
// pattern keeps it; later claims become conflicts.
func Resolve(groups []Group) (*Table, error) {
	owner := make(map[string]string)
	table := &Table{}

	for _, g := range groups {
		kept := Group{Name: g.Name, Middlewares: g.Middlewares}
		for _, e := range g.Endpoints {
			if err := validate(g.Name, e); err != nil {
				return nil, err
			}
			key := routeKey(e.Method, e.Pattern)
			if winner, taken := owner[key]; taken {
				table.Conflicts = append(table.Conflicts, Conflict{Group: g.Name, Endpoint: e, Winner: winner})
				continue
			}
			owner[key] = g.Name
			kept.Endpoints = append(kept.Endpoints, e)
		}
		table.Groups = append(table.Groups, kept)
	}
	return table, nil
}

// Routes lists the registered endpoints in registration order.
func (t *Table) Routes() []models.RouteInfo {
	var out []models.RouteInfo
	for _, g := range t.Groups {
		for _, e := range g.Endpoints {
			out = append(out, models.RouteInfo{Method: e.Method, Pattern: e.Pattern, Tag: e.Tag, Auth: e.Auth})
		}
	}
	return out
}
