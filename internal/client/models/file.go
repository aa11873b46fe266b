// Package models holds the records the CLI exchanges with the files manager
// API.
package models

import (
	"encoding/json"
	"strconv"
)

// File types accepted by the server.
const (
	TypeFolder = "folder"
	TypeFile   = "file"
	TypeImage  = "image"
)

// User is the account returned by /users and /users/me.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// File is a metadata record as rendered by the server.
type File struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	IsPublic bool     `json:"isPublic"`
	ParentID ParentID `json:"parentId"`
}

// ParentID is a parent reference. The server renders the root as the number
// 0 and any other parent as a string id; both decode to a string here, with
// the root held as "0".
type ParentID string

// Root is the parent of top level entries.
const Root ParentID = "0"

func (p *ParentID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = ParentID(n.String())
	return nil
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return []byte(strconv.Quote(string(p))), nil
}

// IsRoot reports whether p points to the root.
func (p ParentID) IsRoot() bool {
	return p == "" || p == Root
}
