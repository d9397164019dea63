package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentType is the kind of a saved link.
type ContentType string

const (
	TypeDocument ContentType = "document"
	TypeTwitter  ContentType = "Twitter"
	TypeYouTube  ContentType = "youtube"
	// TypeLink passes request validation but is not a stored type.
	TypeLink ContentType = "link"
)

// Persistable reports whether t may be written to the content store.
func (t ContentType) Persistable() bool {
	switch t {
	case TypeDocument, TypeTwitter, TypeYouTube:
		return true
	}
	return false
}

// Content is one saved bookmark stored in MongoDB. JSON names follow the
// shape the web client already reads.
type Content struct {
	ID        primitive.ObjectID `json:"_id"       bson:"_id,omitempty"`
	Types     ContentType        `json:"types"     bson:"types"`
	Link      string             `json:"link"      bson:"link"`
	Title     string             `json:"title"     bson:"title"`
	Tags      string             `json:"tags"      bson:"tags"`
	UserID    string             `json:"UserId"    bson:"user_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// CreateContentRequest is the JSON body for POST /content.
type CreateContentRequest struct {
	Types ContentType `json:"types" validate:"required,oneof=document Twitter youtube link"`
	Link  string      `json:"link"  validate:"required,url"`
	Title string      `json:"title" validate:"required"`
	Tags  string      `json:"tags"  validate:"required"`
}

// SharedCollection is the anonymous view of one user's content.
type SharedCollection struct {
	Contents  []Content `json:"contents"`
	OwnerName string    `json:"ownerName"`
}
