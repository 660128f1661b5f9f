package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"bakehouse/internal/models"
)

// Row types mirror the snapshot schema. Nested sequences (recipes,
// order items) are serialized into text columns rather than join
// tables; a snapshot store has no use for relational queries.

type ingredientRow struct {
	ID           string `gorm:"primary_key"`
	Name         string
	Quantity     float64
	Unit         string
	ReorderLevel float64
}

func (ingredientRow) TableName() string { return "ingredients" }

type productRow struct {
	ID            string `gorm:"primary_key"`
	Name          string
	Price         float64
	RecipeJSON    string `gorm:"type:text"`
	StockQuantity float64
}

func (productRow) TableName() string { return "products" }

type orderRow struct {
	ID           string `gorm:"primary_key"`
	CustomerName string
	ItemsJSON    string `gorm:"type:text"`
	Total        float64
	Status       string
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

func (orderRow) TableName() string { return "orders" }

type staffRow struct {
	ID    string `gorm:"primary_key"`
	Name  string
	Role  string
	Shift string
}

func (staffRow) TableName() string { return "staff" }

// SQLiteStore persists snapshots in an embedded SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the snapshot tables.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.AutoMigrate(
		&ingredientRow{},
		&productRow{},
		&orderRow{},
		&staffRow{},
	)
	if db.Error != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", db.Error)
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored snapshot inside a single transaction.
func (s *SQLiteStore) Save(snap models.Snapshot) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	for _, row := range []interface{}{ingredientRow{}, productRow{}, orderRow{}, staffRow{}} {
		if err := tx.Delete(row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("clear: %w", err)
		}
	}

	for _, ing := range snap.Ingredients {
		row := ingredientRow{
			ID:           ing.ID,
			Name:         ing.Name,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			ReorderLevel: ing.ReorderLevel,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save ingredient: %w", err)
		}
	}

	for _, p := range snap.Products {
		recipe, err := json.Marshal(p.Recipe)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal recipe: %w", err)
		}
		row := productRow{
			ID:            p.ID,
			Name:          p.Name,
			Price:         p.Price,
			RecipeJSON:    string(recipe),
			StockQuantity: p.StockQuantity,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save product: %w", err)
		}
	}

	for _, o := range snap.Orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("marshal order items: %w", err)
		}
		row := orderRow{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			ItemsJSON:    string(items),
			Total:        o.Total,
			Status:       string(o.Status),
			CreatedAt:    o.CreatedAt,
			CompletedAt:  o.CompletedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save order: %w", err)
		}
	}

	for _, st := range snap.Staff {
		row := staffRow{ID: st.ID, Name: st.Name, Role: st.Role, Shift: st.Shift}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("save staff: %w", err)
		}
	}

	return tx.Commit().Error
}

// Load reads the stored snapshot. Unreadable serialized columns fail
// with models.ErrCorruptState.
func (s *SQLiteStore) Load() (models.Snapshot, error) {
	var snap models.Snapshot

	var ingredients []ingredientRow
	if err := s.db.Order("id").Find(&ingredients).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load ingredients: %w", err)
	}
	for _, row := range ingredients {
		snap.Ingredients = append(snap.Ingredients, models.Ingredient{
			ID:           row.ID,
			Name:         row.Name,
			Quantity:     row.Quantity,
			Unit:         row.Unit,
			ReorderLevel: row.ReorderLevel,
		})
	}

	var products []productRow
	if err := s.db.Order("id").Find(&products).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load products: %w", err)
	}
	for _, row := range products {
		var recipe []models.RecipeLine
		if err := json.Unmarshal([]byte(row.RecipeJSON), &recipe); err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: product %q recipe: %v", models.ErrCorruptState, row.ID, err)
		}
		snap.Products = append(snap.Products, models.Product{
			ID:            row.ID,
			Name:          row.Name,
			Price:         row.Price,
			Recipe:        recipe,
			StockQuantity: row.StockQuantity,
		})
	}

	var orders []orderRow
	if err := s.db.Order("id").Find(&orders).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load orders: %w", err)
	}
	for _, row := range orders {
		var items []models.OrderItem
		if err := json.Unmarshal([]byte(row.ItemsJSON), &items); err != nil {
			return models.Snapshot{}, fmt.Errorf("%w: order %q items: %v", models.ErrCorruptState, row.ID, err)
		}
		snap.Orders = append(snap.Orders, models.Order{
			ID:           row.ID,
			CustomerName: row.CustomerName,
			Items:        items,
			Total:        row.Total,
			Status:       models.OrderStatus(row.Status),
			CreatedAt:    row.CreatedAt,
			CompletedAt:  row.CompletedAt,
		})
	}

	var staff []staffRow
	if err := s.db.Order("id").Find(&staff).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load staff: %w", err)
	}
	for _, row := range staff {
		snap.Staff = append(snap.Staff, models.Staff{ID: row.ID, Name: row.Name, Role: row.Role, Shift: row.Shift})
	}

	return snap, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
