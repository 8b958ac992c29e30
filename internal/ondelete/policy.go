// Package ondelete applies referential actions before a parent row is removed.
//
// The rules are enforced here rather than left to the database so every
// backend behaves the same, including ones created without foreign keys.
package ondelete

import (
	"fmt"

	"anoa.com/blogfeed/internal/entity"
	"gorm.io/gorm"
)

type Action int

const (
	Cascade Action = iota + 1
	SetNull
)

func (a Action) String() string {
	switch a {
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	default:
		return "UNKNOWN"
	}
}

// Rule says what happens to Child rows whose Column references a deleted parent.
type Rule struct {
	Child  string
	Column string
	Action Action
}

const (
	Users    = "users"
	Groups   = "groups"
	Posts    = "posts"
	Comments = "comments"
	Follows  = "follows"
)

// Policy maps a parent table to the rules triggered by deleting its rows.
var Policy = map[string][]Rule{
	Users: {
		{Child: Posts, Column: "author_id", Action: Cascade},
		{Child: Comments, Column: "author_id", Action: Cascade},
		{Child: Follows, Column: "user_id", Action: Cascade},
		{Child: Follows, Column: "author_id", Action: Cascade},
	},
	Groups: {
		{Child: Posts, Column: "group_id", Action: SetNull},
	},
	Posts: {
		{Child: Comments, Column: "post_id", Action: SetNull},
	},
}

var models = map[string]func() any{
	Users:    func() any { return &entity.User{} },
	Groups:   func() any { return &entity.Group{} },
	Posts:    func() any { return &entity.Post{} },
	Comments: func() any { return &entity.Comment{} },
	Follows:  func() any { return &entity.Follow{} },
}

// Delete removes the rows of table with the given ids after applying Policy
// recursively. Run it inside a transaction.
func Delete(tx *gorm.DB, table string, ids ...any) error {
	if len(ids) == 0 {
		return nil
	}

	model, ok := models[table]
	if !ok {
		return fmt.Errorf("ondelete: unknown table %q", table)
	}

	for _, rule := range Policy[table] {
		if err := apply(tx, rule, ids); err != nil {
			return fmt.Errorf("ondelete: %s.%s %s: %w", rule.Child, rule.Column, rule.Action, err)
		}
	}

	return tx.Where("id IN ?", ids).Delete(model()).Error
}

func apply(tx *gorm.DB, rule Rule, ids []any) error {
	child, ok := models[rule.Child]
	if !ok {
		return fmt.Errorf("unknown table %q", rule.Child)
	}

	switch rule.Action {
	case SetNull:
		return tx.Model(child()).
			Where(rule.Column+" IN ?", ids).
			Update(rule.Column, nil).Error
	case Cascade:
		var childIDs []uint
		if err := tx.Model(child()).
			Where(rule.Column+" IN ?", ids).
			Pluck("id", &childIDs).Error; err != nil {
			return err
		}
		return Delete(tx, rule.Child, toAny(childIDs)...)
	default:
		return fmt.Errorf("unsupported action %d", rule.Action)
	}
}

func toAny(ids []uint) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
