package repositories

import (
	"strings"

	"hardware-distribution-backend/config"
	"hardware-distribution-backend/db/models"
	"hardware-distribution-backend/utils"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const StoresIndex = "hardware_stores"

const defaultSearchSize = 20

type storeDocument struct {
	ID              string `json:"id"`
	StoreCode       string `json:"store_code"`
	Name            string `json:"name"`
	Province        string `json:"province"`
	City            string `json:"city"`
	Address         string `json:"address"`
	ContactPerson   string `json:"contact_person,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	IsActive        bool   `json:"is_active"`
	ImportSessionID string `json:"import_session_id,omitempty"`
}

type StoreSearchFilters struct {
	Query    string
	Province string
	City     string
	Active   *bool
	Size     int
	From     int
}

func toStoreDocument(store models.HardwareStore) storeDocument {
	return storeDocument{
		ID:              store.ID.String(),
		StoreCode:       store.StoreCode,
		Name:            store.Name,
		Province:        store.Province,
		City:            store.City,
		Address:         store.Address,
		ContactPerson:   utils.StringOrEmpty(store.ContactPerson),
		Phone:           utils.StringOrEmpty(store.Phone),
		Email:           utils.StringOrEmpty(store.Email),
		IsActive:        store.IsActive,
		ImportSessionID: derefUUID(store.ImportSessionID),
	}
}

func (r *BleveRepository) IndexStore(store models.HardwareStore) error {
	if err := r.indexer.IndexDocument(StoresIndex, store.ID.String(), toStoreDocument(store)); err != nil {
		config.Logger.Error("Failed to index store into Bleve",
			zap.Error(err),
			zap.String("store_id", store.ID.String()))
		return err
	}
	return nil
}

func (r *BleveRepository) IndexExistingStores(stores []models.HardwareStore) error {
	docs := make(map[string]interface{}, len(stores))
	for _, store := range stores {
		docs[store.ID.String()] = toStoreDocument(store)
	}

	if len(docs) == 0 {
		config.Logger.Info("No stores to index into Bleve.")
		return nil
	}

	if err := r.indexer.BulkIndexDocuments(StoresIndex, docs); err != nil {
		config.Logger.Error("Failed to bulk index stores into Bleve", zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) DeleteStore(storeID string) error {
	if err := r.indexer.DeleteDocument(StoresIndex, storeID); err != nil {
		config.Logger.Error("Failed to delete store from Bleve",
			zap.Error(err),
			zap.String("store_id", storeID))
		return err
	}
	return nil
}

func textQuery(q string) query.Query {
	lower := strings.ToLower(q)
	textMatch := bleve.NewBooleanQuery()

	codeExact := bleve.NewTermQuery(lower)
	codeExact.SetField("store_code")
	codeExact.SetBoost(10.0)
	textMatch.AddShould(codeExact)

	nameMatch := bleve.NewMatchQuery(q)
	nameMatch.SetField("name")
	nameMatch.SetBoost(7.0)
	textMatch.AddShould(nameMatch)

	namePrefix := bleve.NewPrefixQuery(lower)
	namePrefix.SetField("name")
	namePrefix.SetBoost(5.0)
	textMatch.AddShould(namePrefix)

	nameFuzzy := bleve.NewFuzzyQuery(lower)
	nameFuzzy.SetField("name")
	nameFuzzy.SetFuzziness(1)
	nameFuzzy.SetBoost(4.0)
	textMatch.AddShould(nameFuzzy)

	for _, field := range []string{"contact_person", "city", "address", "email"} {
		m := bleve.NewMatchQuery(q)
		m.SetField(field)
		m.SetBoost(2.0)
		textMatch.AddShould(m)
	}
	return textMatch
}

// SearchStores combines free text with exact location and status filters.
// With neither text nor filters every store matches.
func (r *BleveRepository) SearchStores(filters StoreSearchFilters) (*bleve.SearchResult, error) {
	finalQuery := bleve.NewBooleanQuery()
	clauses := 0

	if q := strings.TrimSpace(filters.Query); q != "" {
		finalQuery.AddMust(textQuery(q))
		clauses++
	}
	if province := strings.TrimSpace(filters.Province); province != "" {
		provinceQuery := bleve.NewMatchPhraseQuery(province)
		provinceQuery.SetField("province")
		finalQuery.AddMust(provinceQuery)
		clauses++
	}
	if city := strings.TrimSpace(filters.City); city != "" {
		cityQuery := bleve.NewMatchPhraseQuery(city)
		cityQuery.SetField("city")
		finalQuery.AddMust(cityQuery)
		clauses++
	}
	if filters.Active != nil {
		activeQuery := bleve.NewBoolFieldQuery(*filters.Active)
		activeQuery.SetField("is_active")
		finalQuery.AddMust(activeQuery)
		clauses++
	}

	size := filters.Size
	if size <= 0 {
		size = defaultSearchSize
	}

	var q query.Query = finalQuery
	if clauses == 0 {
		q = bleve.NewMatchAllQuery()
	}
	return r.indexer.SearchIndex(StoresIndex, q, size, filters.From)
}

func derefUUID(u *uuid.UUID) string {
	if u != nil {
		return u.String()
	}
	return ""
}
