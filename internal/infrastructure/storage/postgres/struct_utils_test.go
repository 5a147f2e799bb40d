package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"freshstock/internal/core/entity"
	"freshstock/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Brand  string `db:"brand" json:"brand"`
	Loaded bool   `db:"-" json:"-"`
}

type mockDocument struct {
	entity.Document
	SectionID id.ID `db:"section_id" json:"sectionId"`
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{"id", "version", "code", "name", "brand"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestExtractDBColumns_Document(t *testing.T) {
	cols := ExtractDBColumns[mockDocument]()

	expectedCols := []string{"id", "version", "created_at", "updated_at", "number", "date", "section_id"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			Code: "PR-00001",
			Name: "Whole Milk 1L",
		},
		Brand:  "Campo Belo",
		Loaded: true,
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "PR-00001", m["code"])
	assert.Equal(t, "Whole Milk 1L", m["name"])
	assert.Equal(t, "Campo Belo", m["brand"])
	assert.NotContains(t, m, "-")
}

func TestStructToMap_Document(t *testing.T) {
	now := time.Now().UTC()
	doc := mockDocument{
		Document: entity.Document{
			BaseDocument: entity.NewBaseDocument(),
			Number:       "IB-2026-00042",
			Date:         now,
		},
		SectionID: id.New(),
	}

	m := StructToMap(doc)

	assert.Equal(t, "IB-2026-00042", m["number"])
	assert.Equal(t, now, m["date"])
	assert.Equal(t, doc.SectionID, m["section_id"])
}
