package services

import "strings"

// ColumnMapping holds the zero-based column of every store field. A
// negative index means the sheet has no such column.
type ColumnMapping struct {
	StoreName     int `json:"storeName"`
	Province      int `json:"province"`
	Address       int `json:"address"`
	City          int `json:"city"`
	ContactPerson int `json:"contactPerson"`
	Phone         int `json:"phone"`
	Email         int `json:"email"`
}

// DefaultColumnMapping is the fixed template layout.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		StoreName:     0,
		Province:      1,
		Address:       2,
		City:          3,
		ContactPerson: 4,
		Phone:         5,
		Email:         6,
	}
}

var headerAliases = []struct {
	field   func(*ColumnMapping) *int
	aliases []string
}{
	{func(m *ColumnMapping) *int { return &m.StoreName }, []string{"store name", "name", "store", "company", "company name", "shop"}},
	{func(m *ColumnMapping) *int { return &m.Province }, []string{"province", "region", "state"}},
	{func(m *ColumnMapping) *int { return &m.Address }, []string{"address", "street", "street address"}},
	{func(m *ColumnMapping) *int { return &m.City }, []string{"city", "town", "suburb"}},
	{func(m *ColumnMapping) *int { return &m.ContactPerson }, []string{"contact", "contact person", "contact name"}},
	{func(m *ColumnMapping) *int { return &m.Phone }, []string{"phone", "telephone", "tel", "mobile", "cell"}},
	{func(m *ColumnMapping) *int { return &m.Email }, []string{"email", "e mail", "email address"}},
}

func lookupField(header string) (func(*ColumnMapping) *int, bool) {
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if alias == header {
				return entry.field, true
			}
		}
	}
	return nil, false
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.NewReplacer("_", " ", "-", " ").Replace(cell)
	return strings.Join(strings.Fields(cell), " ")
}

// DetectColumnMapping matches header cells against known aliases. The first
// column claiming a field wins. Detection only succeeds when the store name
// column is found.
func DetectColumnMapping(header []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1}
	for i, cell := range header {
		field, ok := lookupField(normalizeHeader(cell))
		if !ok {
			continue
		}
		if target := field(&mapping); *target < 0 {
			*target = i
		}
	}
	if mapping.StoreName < 0 {
		return DefaultColumnMapping(), false
	}
	fillPositionalDefaults(&mapping)
	return mapping, true
}

// fillPositionalDefaults gives every unmatched field its template column,
// unless a detected field already reads that column.
func fillPositionalDefaults(mapping *ColumnMapping) {
	claimed := make(map[int]bool, len(headerAliases))
	for _, entry := range headerAliases {
		if idx := *entry.field(mapping); idx >= 0 {
			claimed[idx] = true
		}
	}
	defaults := DefaultColumnMapping()
	for _, entry := range headerAliases {
		target := entry.field(mapping)
		if *target >= 0 {
			continue
		}
		if fallback := *entry.field(&defaults); !claimed[fallback] {
			*target = fallback
			claimed[fallback] = true
		}
	}
}

// ResolveColumnMapping builds the mapping used for a whole file.
func ResolveColumnMapping(rows [][]string, detectHeaders bool) ColumnMapping {
	if !detectHeaders || len(rows) == 0 {
		return DefaultColumnMapping()
	}
	mapping, _ := DetectColumnMapping(rows[0])
	return mapping
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
