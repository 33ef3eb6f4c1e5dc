package auth

import (
	"sort"
	"strings"
)

// Policy is the access metadata of one operation.
type Policy struct {
	// Public operations skip authentication entirely.
	Public bool
	// RequiredRole, when set, must equal the caller's role claim.
	RequiredRole string
}

// PolicyResolver returns the effective policy for an operation, identified
// by HTTP method and route pattern (gin's FullPath, e.g. "/admin/logs").
type PolicyResolver interface {
	Resolve(method, route string) Policy
}

// Operation is a registered route with its effective policy.
type Operation struct {
	Method string
	Route  string
	Policy Policy
}

// Table maps operations to policies.
//
// An operation-level record always wins over a group default; among group
// defaults the longest matching prefix wins. Operations with no record at
// all require authentication and no role.
//
// Table is filled during route registration and must not be mutated once
// the server starts handling requests.
type Table struct {
	ops    map[string]*Policy
	order  []string
	groups []groupPolicy
}

type groupPolicy struct {
	prefix string
	policy Policy
}

func NewTable() *Table {
	return &Table{ops: make(map[string]*Policy)}
}

// Register records that an operation exists without giving it a policy of
// its own. It then inherits its group default, if any.
func (t *Table) Register(method, route string) {
	k := opKey(method, route)
	if _, ok := t.ops[k]; ok {
		return
	}
	t.ops[k] = nil
	t.order = append(t.order, k)
}

// Set registers an operation with an explicit policy.
func (t *Table) Set(method, route string, p Policy) {
	t.Register(method, route)
	t.ops[opKey(method, route)] = &p
}

// SetGroup applies p to every route under prefix that has no record of its own.
func (t *Table) SetGroup(prefix string, p Policy) {
	prefix = strings.TrimSuffix(prefix, "/")
	for i, g := range t.groups {
		if g.prefix == prefix {
			t.groups[i].policy = p
			return
		}
	}
	t.groups = append(t.groups, groupPolicy{prefix: prefix, policy: p})
}

func (t *Table) Resolve(method, route string) Policy {
	if p := t.ops[opKey(method, route)]; p != nil {
		return *p
	}

	best := -1
	var resolved Policy
	for _, g := range t.groups {
		if !underPrefix(route, g.prefix) || len(g.prefix) <= best {
			continue
		}
		best = len(g.prefix)
		resolved = g.policy
	}
	return resolved
}

// Operations lists registered operations sorted by route, then method.
func (t *Table) Operations() []Operation {
	out := make([]Operation, 0, len(t.order))
	for _, k := range t.order {
		method, route, _ := strings.Cut(k, " ")
		out = append(out, Operation{Method: method, Route: route, Policy: t.Resolve(method, route)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Route != out[j].Route {
			return out[i].Route < out[j].Route
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func opKey(method, route string) string {
	return strings.ToUpper(method) + " " + route
}

func underPrefix(route, prefix string) bool {
	if prefix == "" {
		return true
	}
	return route == prefix || strings.HasPrefix(route, prefix+"/")
}
