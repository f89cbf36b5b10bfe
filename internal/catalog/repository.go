package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrEntityNotFound = errors.New("catalog entity not found")

type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	ListEntities(ctx context.Context) ([]domain.CatalogEntity, error)
	GetEntity(ctx context.Context, kind domain.Kind, id string) (*domain.CatalogEntity, error)
	CreateEntity(ctx context.Context, e *domain.CatalogEntity) error
	DeleteEntity(ctx context.Context, kind domain.Kind, id string) error
	Close() error
	RunMigrations(string) error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// ListEntities returns the whole sellable collection in the one shape the
// cart consumes: tops, bottoms, then outfits with their component colors
// and images joined in.
func (r *Repository) ListEntities(ctx context.Context) ([]domain.CatalogEntity, error) {
	var entities []domain.CatalogEntity

	garments, err := r.listGarments(ctx, domain.KindTop)
	if err != nil {
		return nil, err
	}
	entities = append(entities, garments...)

	garments, err = r.listGarments(ctx, domain.KindBottom)
	if err != nil {
		return nil, err
	}
	entities = append(entities, garments...)

	outfits, err := r.listOutfits(ctx)
	if err != nil {
		return nil, err
	}
	entities = append(entities, outfits...)

	return entities, nil
}

func (r *Repository) listGarments(ctx context.Context, kind domain.Kind) ([]domain.CatalogEntity, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, price, image_url, color, occasion, created_at
		FROM %s
		ORDER BY id
	`, garmentTable(kind))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %ss: %w", kind, err)
	}
	defer rows.Close()

	var entities []domain.CatalogEntity
	for rows.Next() {
		e, err := scanGarment(rows, kind)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entities, nil
}

const outfitSelect = `
	SELECT o.id, o.name, o.description, o.total_price, o.occasion, o.created_at,
	       t.id, t.color, t.image_url,
	       b.id, b.color, b.image_url
	FROM outfits o
	LEFT JOIN tops t ON t.id = o.top_id
	LEFT JOIN bottoms b ON b.id = o.bottom_id
`

func (r *Repository) listOutfits(ctx context.Context) ([]domain.CatalogEntity, error) {
	rows, err := r.db.QueryContext(ctx, outfitSelect+" ORDER BY o.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query outfits: %w", err)
	}
	defer rows.Close()

	var entities []domain.CatalogEntity
	for rows.Next() {
		e, err := scanOutfit(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entities, nil
}

func (r *Repository) GetEntity(ctx context.Context, kind domain.Kind, id string) (*domain.CatalogEntity, error) {
	if kind == domain.KindOutfit {
		return r.getOutfit(ctx, id)
	}
	return r.getGarment(ctx, kind, id)
}

func (r *Repository) getGarment(ctx context.Context, kind domain.Kind, id string) (*domain.CatalogEntity, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, price, image_url, color, occasion, created_at
		FROM %s
		WHERE id = $1
	`, garmentTable(kind))

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer rows.Close()

	var entity *domain.CatalogEntity
	for rows.Next() {
		entity, err = scanGarment(rows, kind)
		if err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if entity == nil {
		return nil, ErrEntityNotFound
	}
	return entity, nil
}

func (r *Repository) getOutfit(ctx context.Context, id string) (*domain.CatalogEntity, error) {
	rows, err := r.db.QueryContext(ctx, outfitSelect+" WHERE o.id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query outfit: %w", err)
	}
	defer rows.Close()

	var entity *domain.CatalogEntity
	for rows.Next() {
		entity, err = scanOutfit(rows)
		if err != nil {
			return nil, err
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if entity == nil {
		return nil, ErrEntityNotFound
	}
	return entity, nil
}

func (r *Repository) CreateEntity(ctx context.Context, e *domain.CatalogEntity) error {
	if _, ok := domain.ParseKind(string(e.Kind)); !ok {
		return domain.ErrInvalidEntity
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	if e.Kind == domain.KindOutfit {
		var topID, bottomID sql.NullString
		if e.Top != nil {
			topID = sql.NullString{String: e.Top.ID, Valid: true}
		}
		if e.Bottom != nil {
			bottomID = sql.NullString{String: e.Bottom.ID, Valid: true}
		}

		_, err := r.db.ExecContext(ctx, `
			INSERT INTO outfits (id, name, description, total_price, top_id, bottom_id, occasion, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, e.ID, e.Name, e.Description, e.TotalPrice, topID, bottomID, e.Occasion, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert outfit: %w", err)
		}
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, description, price, image_url, color, occasion, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, garmentTable(e.Kind))

	_, err := r.db.ExecContext(ctx, query, e.ID, e.Name, e.Description, e.Price, e.ImageURL, e.Color, e.Occasion, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", e.Kind, err)
	}
	return nil
}

func (r *Repository) DeleteEntity(ctx context.Context, kind domain.Kind, id string) error {
	table := garmentTable(kind)
	if kind == domain.KindOutfit {
		table = "outfits"
	}

	result, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEntityNotFound
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func garmentTable(kind domain.Kind) string {
	if kind == domain.KindBottom {
		return "bottoms"
	}
	return "tops"
}

func scanGarment(rows *sql.Rows, kind domain.Kind) (*domain.CatalogEntity, error) {
	e := &domain.CatalogEntity{Kind: kind}
	err := rows.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.Price,
		&e.ImageURL,
		&e.Color,
		&e.Occasion,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
	}
	return e, nil
}

func scanOutfit(rows *sql.Rows) (*domain.CatalogEntity, error) {
	e := &domain.CatalogEntity{Kind: domain.KindOutfit}
	var topID, topColor, topImage sql.NullString
	var bottomID, bottomColor, bottomImage sql.NullString

	err := rows.Scan(
		&e.ID,
		&e.Name,
		&e.Description,
		&e.TotalPrice,
		&e.Occasion,
		&e.CreatedAt,
		&topID, &topColor, &topImage,
		&bottomID, &bottomColor, &bottomImage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outfit: %w", err)
	}

	if topID.Valid {
		e.Top = &domain.OutfitComponent{
			ID:       topID.String,
			Color:    topColor.String,
			ImageURL: topImage.String,
		}
	}
	if bottomID.Valid {
		e.Bottom = &domain.OutfitComponent{
			ID:       bottomID.String,
			Color:    bottomColor.String,
			ImageURL: bottomImage.String,
		}
	}

	return e, nil
}
