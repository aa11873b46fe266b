// Package models defines server-side data models shared by repositories,
// services and the HTTP layer.
package models

import "time"

// FileKind is the kind of a file record.
type FileKind string

const (
	KindFolder FileKind = "folder"
	KindFile   FileKind = "file"
	KindImage  FileKind = "image"
)

// ParseFileKind returns the kind named by s and whether it is one of the known kinds.
func ParseFileKind(s string) (FileKind, bool) {
	switch k := FileKind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// HasContent reports whether records of this kind carry a blob.
func (k FileKind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// ParentRef points either at the root of a user's tree or at a folder.
// The zero value is the root.
type ParentRef struct {
	folderID string
}

// RootParent returns the root reference.
func RootParent() ParentRef { return ParentRef{} }

// FolderParent returns a reference to the folder with the given id.
func FolderParent(id string) ParentRef { return ParentRef{folderID: id} }

// IsRoot reports whether p is the root.
func (p ParentRef) IsRoot() bool { return p.folderID == "" }

// FolderID returns the referenced folder id, or "" for the root.
func (p ParentRef) FolderID() string { return p.folderID }

// File is the metadata record of an uploaded file, image or folder.
//
// Folders never carry a ContentRef. Files and images always do, and the blob
// behind it is written before the record is inserted.
type File struct {
	ID         string
	UserID     string
	Name       string
	Kind       FileKind
	IsPublic   bool
	Parent     ParentRef
	ContentRef string

	// Seq is the insertion sequence used for listing order.
	Seq       int64
	CreatedAt time.Time
}

// OwnedBy reports whether userID owns f.
func (f *File) OwnedBy(userID string) bool {
	return userID != "" && f.UserID == userID
}
