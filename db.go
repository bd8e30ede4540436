package main

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"os"
	"time"

	"github.com/jinzhu/gorm"
	uuid "github.com/satori/go.uuid"

	"github.com/ExtraHash/fry/pieces"
)

// Config is the config file for the db and api
type Config struct {
	DbType          string `json:"dbType"`
	DbConnectionStr string `json:"dbConnectionStr"`
	Port            int    `json:"port"`
}

var defaultConfig = Config{
	DbType:          "sqlite3",
	DbConnectionStr: "fry.db",
	Port:            8080,
}

// Catalog is one stored snapshot of the piece table.
type Catalog struct {
	Model
	CatalogID uuid.UUID `json:"catalogID"`
}

// PieceRecord is a single piece descriptor inside a catalog.
type PieceRecord struct {
	Model
	CatalogID uuid.UUID `json:"catalogID"`
	Symbol    string    `json:"symbol"`
	Value     int       `json:"value"`
	Repeats   bool      `json:"repeats"`
	Moves     []byte    `json:"-"`
	Attacks   []byte    `json:"-"` // nil when captures follow moves
}

// Model that hides unnecessary fields in json
type Model struct {
	ID        uint       `json:"-" gorm:"primary_key"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
	DeletedAt *time.Time `json:"-" sql:"index"`
}

var errCatalogNotFound = errors.New("catalog not found")

func readConfig(path string) (Config, error) {
	config := defaultConfig
	bytes, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	if err := json.Unmarshal(bytes, &config); err != nil {
		return config, err
	}
	return config, nil
}

func getDB(config Config) (*gorm.DB, error) {
	// initialize database, support sqlite and mysql
	db, err := gorm.Open(config.DbType, config.DbConnectionStr)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(Catalog{}, PieceRecord{}).Error; err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// serializeVectors packs displacements as signed byte pairs.
func serializeVectors(v pieces.Vectors) []byte {
	serialized := []byte{}
	for _, d := range v.Slice() {
		serialized = append(serialized, byte(int8(d.DX)), byte(int8(d.DY)))
	}
	return serialized
}

func deserializeVectors(dat []byte) []pieces.Displacement {
	out := []pieces.Displacement{}
	for i := 0; i+1 < len(dat); i += 2 {
		out = append(out, pieces.Displacement{DX: int(int8(dat[i])), DY: int(int8(dat[i+1]))})
	}
	return out
}

func storeCatalog(db *gorm.DB, reg *pieces.Registry) (uuid.UUID, error) {
	catalog := Catalog{CatalogID: uuid.NewV4()}
	tx := db.Begin()
	if err := tx.Create(&catalog).Error; err != nil {
		tx.Rollback()
		return uuid.Nil, err
	}
	for _, d := range reg.All() {
		record := PieceRecord{
			CatalogID: catalog.CatalogID,
			Symbol:    d.Symbol.String(),
			Value:     d.Value,
			Repeats:   d.Repeats,
			Moves:     serializeVectors(d.Moves),
		}
		if att, ok := d.Attacks.Get(); ok {
			record.Attacks = serializeVectors(att)
		}
		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return uuid.Nil, err
		}
	}
	return catalog.CatalogID, tx.Commit().Error
}

func loadCatalog(db *gorm.DB, catalogID uuid.UUID) ([]PieceRecord, error) {
	catalog := Catalog{}
	err := db.Where("catalog_id = ?", catalogID).First(&catalog).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, errCatalogNotFound
	}
	if err != nil {
		return nil, err
	}
	records := []PieceRecord{}
	err = db.Where("catalog_id = ?", catalogID).Order("id").Find(&records).Error
	return records, err
}
