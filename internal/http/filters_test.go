package httpx

import (
	"net/url"
	"testing"
)

func TestParseSortParam_CombinedFormat(t *testing.T) {
	tests := []struct {
		name          string
		sortValue     string
		expectedField string
		expectedDir   string
	}{
		{
			name:          "valid asc",
			sortValue:     "price:asc",
			expectedField: "price",
			expectedDir:   "asc",
		},
		{
			name:          "valid desc",
			sortValue:     "name:desc",
			expectedField: "name",
			expectedDir:   "desc",
		},
		{
			name:          "uppercase direction",
			sortValue:     "bedrooms:DESC",
			expectedField: "bedrooms",
			expectedDir:   "desc",
		},
		{
			name:          "mixed case direction",
			sortValue:     "price:AsC",
			expectedField: "price",
			expectedDir:   "asc",
		},
		{
			name:          "invalid direction",
			sortValue:     "price:cheapest",
			expectedField: "price",
			expectedDir:   "",
		},
		{
			name:          "empty direction",
			sortValue:     "bedrooms:",
			expectedField: "bedrooms",
			expectedDir:   "",
		},
		{
			name:          "whitespace around parts",
			sortValue:     " price : desc ",
			expectedField: "price",
			expectedDir:   "desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set("sort", tt.sortValue)

			field, dir := ParseSortParam(q, "sort", "dir")

			if field != tt.expectedField {
				t.Errorf("Expected field %q, got %q", tt.expectedField, field)
			}
			if dir != tt.expectedDir {
				t.Errorf("Expected dir %q, got %q", tt.expectedDir, dir)
			}
		})
	}
}

func TestParseSortParam_SeparateFormat(t *testing.T) {
	tests := []struct {
		name          string
		sortValue     string
		dirValue      string
		expectedField string
		expectedDir   string
	}{
		{
			name:          "valid asc",
			sortValue:     "price",
			dirValue:      "asc",
			expectedField: "price",
			expectedDir:   "asc",
		},
		{
			name:          "valid desc",
			sortValue:     "name",
			dirValue:      "desc",
			expectedField: "name",
			expectedDir:   "desc",
		},
		{
			name:          "uppercase direction",
			sortValue:     "bedrooms",
			dirValue:      "DESC",
			expectedField: "bedrooms",
			expectedDir:   "desc",
		},
		{
			name:          "invalid direction",
			sortValue:     "price",
			dirValue:      "cheapest",
			expectedField: "price",
			expectedDir:   "",
		},
		{
			name:          "empty direction",
			sortValue:     "bedrooms",
			dirValue:      "",
			expectedField: "bedrooms",
			expectedDir:   "",
		},
		{
			name:          "whitespace in values",
			sortValue:     " name ",
			dirValue:      " asc ",
			expectedField: "name",
			expectedDir:   "asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set("sort", tt.sortValue)
			q.Set("dir", tt.dirValue)

			field, dir := ParseSortParam(q, "sort", "dir")

			if field != tt.expectedField {
				t.Errorf("Expected field %q, got %q", tt.expectedField, field)
			}
			if dir != tt.expectedDir {
				t.Errorf("Expected dir %q, got %q", tt.expectedDir, dir)
			}
		})
	}
}

func TestParseSortParam_CombinedTakesPrecedence(t *testing.T) {
	// When both combined and separate formats are present, combined should take precedence
	q := url.Values{}
	q.Set("sort", "price:desc")
	q.Set("dir", "asc") // This should be ignored

	field, dir := ParseSortParam(q, "sort", "dir")

	if field != "price" {
		t.Errorf("Expected field %q, got %q", "price", field)
	}
	if dir != "desc" {
		t.Errorf("Expected dir %q, got %q", "desc", dir)
	}
}

func TestParseSortParam_EmptyValues(t *testing.T) {
	q := url.Values{}

	field, dir := ParseSortParam(q, "sort", "dir")

	if field != "" {
		t.Errorf("Expected empty field, got %q", field)
	}
	if dir != "" {
		t.Errorf("Expected empty dir, got %q", dir)
	}
}

func TestParseSortParam_CustomKeys(t *testing.T) {
	q := url.Values{}
	q.Set("order_by", "price")
	q.Set("order_dir", "desc")

	field, dir := ParseSortParam(q, "order_by", "order_dir")

	if field != "price" {
		t.Errorf("Expected field %q, got %q", "price", field)
	}
	if dir != "desc" {
		t.Errorf("Expected dir %q, got %q", "desc", dir)
	}
}

func TestParseSortParam_MultipleColons(t *testing.T) {
	// Only the first colon should be used for splitting
	q := url.Values{}
	q.Set("sort", "houses:price:desc")

	field, dir := ParseSortParam(q, "sort", "dir")

	// Should split on first colon only
	if field != "houses" {
		t.Errorf("Expected field %q, got %q", "houses", field)
	}
	// "price:desc" is not a valid direction
	if dir != "" {
		t.Errorf("Expected empty dir, got %q", dir)
	}
}

func TestParseApartmentsFilter_DropsUnknownSortField(t *testing.T) {
	q := url.Values{}
	q.Set("sort", "owner:desc")
	q.Set("q", "  seaside  ")

	filter, err := parseApartmentsFilter(q)
	if err != nil {
		t.Fatalf("parseApartmentsFilter: %v", err)
	}
	if filter.Sort != "" {
		t.Errorf("Expected unknown sort field to be dropped, got %q", filter.Sort)
	}
	if filter.Query != "seaside" {
		t.Errorf("Expected trimmed query %q, got %q", "seaside", filter.Query)
	}
}

func TestConstants(t *testing.T) {
	// Verify constants are defined correctly
	const (
		expectedTrue  = "true"
		expectedFalse = "false"
		expectedAsc   = "asc"
		expectedDesc  = "desc"
	)

	if StrTrue != expectedTrue {
		t.Errorf("Expected StrTrue to be %q, got %q", expectedTrue, StrTrue)
	}
	if StrFalse != expectedFalse {
		t.Errorf("Expected StrFalse to be %q, got %q", expectedFalse, StrFalse)
	}
	if SortDirAsc != expectedAsc {
		t.Errorf("Expected SortDirAsc to be %q, got %q", expectedAsc, SortDirAsc)
	}
	if SortDirDesc != expectedDesc {
		t.Errorf("Expected SortDirDesc to be %q, got %q", expectedDesc, SortDirDesc)
	}
}
