package material

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/controller/category"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/validation"
)

var validate = validator.New()

// Document is the full API representation of a material, with the owner and
// category relations resolved into nested documents.
type Document struct {
	ID         uint64              `json:"id"`
	Name       string              `json:"name"`
	Author     string              `json:"author"`
	Type       string              `json:"type"`
	File       string              `json:"file"`
	Extension  string              `json:"extension"`
	Owner      models.PublicUser   `json:"owner"`
	Categories []category.Document `json:"categories"`
	IsOpen     bool                `json:"is_open"`
	Deleted    bool                `json:"deleted"`
	AutoDate   time.Time           `json:"auto_date"`
}

// ToDocument maps a material row to its API representation, resolving the
// owner row and the linked categories.
func ToDocument(db *gorm.DB, m *models.Material) (*Document, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	owner := m.Owner
	if owner.ID == 0 {
		if err := db.First(&owner, m.OwnerID).Error; err != nil {
			return nil, err
		}
	}

	categories, err := CategoriesFor(db, m.ID)
	if err != nil {
		return nil, err
	}

	docs := make([]category.Document, 0, len(categories))
	for _, c := range categories {
		docs = append(docs, category.ToDocument(c))
	}

	return &Document{
		ID:         m.ID,
		Name:       m.Name,
		Author:     m.Author,
		Type:       m.Type,
		File:       m.File,
		Extension:  m.Extension,
		Owner:      owner.Public(),
		Categories: docs,
		IsOpen:     m.IsOpen,
		Deleted:    m.Deleted,
		AutoDate:   m.AutoDate,
	}, nil
}

// ToDocuments maps a page of material rows to their API representation.
// It always returns a non-nil slice so an empty page serializes as [].
func ToDocuments(db *gorm.DB, materials []models.Material) ([]Document, error) {
	docs := make([]Document, 0, len(materials))

	for i := range materials {
		doc, err := ToDocument(db, &materials[i])
		if err != nil {
			return nil, err
		}

		docs = append(docs, *doc)
	}

	return docs, nil
}

// CreateInput is the validated payload for creating a material. File and
// Extension are filled by the caller after storing the upload; OwnerID always
// comes from the authenticated requester, never from the form.
type CreateInput struct {
	Name       string `validate:"required,max=255"`
	Author     string `validate:"required,max=255"`
	Type       string `validate:"required,max=100"`
	IsOpen     bool
	OwnerID    uint64 `validate:"required"`
	File       string
	Extension  string
	Categories []uint64
}

// readOnlyFields may never be supplied by the client.
var readOnlyFields = []string{"auto_date", "deleted", "extension", "owner"}

func formValue(form map[string][]string, key string) (string, bool) {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return "", false
	}

	return values[0], true
}

// ParseCreateForm validates the multipart field values of a create request
// and builds the input for the write unit. Field errors are collected per
// field rather than failing on the first one.
func ParseCreateForm(form map[string][]string, requesterID uint64) (*CreateInput, validation.Errors) {
	errs := validation.Errors{}

	for _, field := range readOnlyFields {
		if _, ok := formValue(form, field); ok {
			errs.Add(field, "This field is read-only")
		}
	}

	in := CreateInput{
		IsOpen:  true,
		OwnerID: requesterID,
	}

	in.Name, _ = formValue(form, "name")
	in.Author, _ = formValue(form, "author")
	in.Type, _ = formValue(form, "type")

	if raw, ok := formValue(form, "is_open"); ok {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			errs.Add("is_open", "Must be a boolean")
		} else {
			in.IsOpen = open
		}
	}

	if raw, ok := formValue(form, "categories"); ok && raw != "" {
		var entries []struct {
			Category uint64 `json:"category"`
		}

		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			errs.Add("categories", "JSON decode error")
		} else {
			in.Categories = make([]uint64, 0, len(entries))
			for _, entry := range entries {
				in.Categories = append(in.Categories, entry.Category)
			}
		}
	}

	if err := validate.Struct(in); err != nil {
		validation.Collect(err, errs)
	}

	if !errs.Empty() {
		return nil, errs
	}

	return &in, errs
}
