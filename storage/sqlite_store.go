package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"gopontos/catalog"
	"gopontos/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

var ErrNotFound = errors.New("record not found")

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS point_sources (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	sale_id TEXT NOT NULL DEFAULT '',
	sale_date TEXT NOT NULL,
	cnpj TEXT NOT NULL,
	agency_name TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	store TEXT NOT NULL DEFAULT '',
	executive_name TEXT NOT NULL,
	supplier TEXT NOT NULL DEFAULT '',
	product_name TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	points REAL NOT NULL CHECK(points >= 0),
	source_file TEXT NOT NULL,
	row_number INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(sale_id, sale_date, cnpj, points, source_file, row_number)
);

CREATE TABLE IF NOT EXISTS redemptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cnpj TEXT NOT NULL,
	product_id INTEGER NOT NULL,
	points REAL NOT NULL CHECK(points > 0),
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	category_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS product_images (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	points REAL NOT NULL CHECK(points > 0),
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS banners (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	image_file TEXT NOT NULL,
	link_url TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS size_charts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	label TEXT NOT NULL,
	image_file TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertSources persists valid import rows. Rows already present (same sale,
// file, and sheet position) are ignored, so re-importing a file is harmless.
func (s *SQLiteStore) InsertSources(sources []ledger.Source) (int, error) {
	if len(sources) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO point_sources (
	sale_id,
	sale_date,
	cnpj,
	agency_name,
	branch,
	store,
	executive_name,
	supplier,
	product_name,
	company,
	points,
	source_file,
	row_number
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, source := range sources {
		res, err := stmt.Exec(
			source.SaleID,
			source.SaleDate,
			source.CNPJ,
			source.AgencyName,
			source.Branch,
			source.Store,
			source.ExecutiveName,
			source.Supplier,
			source.ProductName,
			source.Company,
			source.Points,
			source.SourceFile,
			source.RowNumber,
		)
		if err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("insert point source: %w", err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *SQLiteStore) ListSources() ([]ledger.Source, error) {
	const query = `
SELECT
	id,
	sale_id,
	sale_date,
	cnpj,
	agency_name,
	branch,
	store,
	executive_name,
	supplier,
	product_name,
	company,
	points,
	source_file,
	row_number
FROM point_sources
ORDER BY sale_date, id;
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query point sources: %w", err)
	}
	defer rows.Close()

	sources := make([]ledger.Source, 0, 256)
	for rows.Next() {
		var source ledger.Source
		if err := rows.Scan(
			&source.ID,
			&source.SaleID,
			&source.SaleDate,
			&source.CNPJ,
			&source.AgencyName,
			&source.Branch,
			&source.Store,
			&source.ExecutiveName,
			&source.Supplier,
			&source.ProductName,
			&source.Company,
			&source.Points,
			&source.SourceFile,
			&source.RowNumber,
		); err != nil {
			return nil, fmt.Errorf("scan point source: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate point sources: %w", err)
	}

	return sources, nil
}

// BalanceForCNPJ aggregates earned points minus redeemed points.
func (s *SQLiteStore) BalanceForCNPJ(cnpj string) (ledger.Balance, error) {
	balance := ledger.Balance{CNPJ: cnpj}

	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points), 0) FROM point_sources WHERE cnpj = ?;`,
		cnpj,
	).Scan(&balance.Earned)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("sum earned points for %s: %w", cnpj, err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(points), 0) FROM redemptions WHERE cnpj = ?;`,
		cnpj,
	).Scan(&balance.Redeemed)
	if err != nil {
		return ledger.Balance{}, fmt.Errorf("sum redeemed points for %s: %w", cnpj, err)
	}

	balance.Available = balance.Earned - balance.Redeemed
	return balance, nil
}

func (s *SQLiteStore) InsertRedemption(redemption ledger.Redemption) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO redemptions (cnpj, product_id, points) VALUES (?, ?, ?);`,
		redemption.CNPJ,
		redemption.ProductID,
		redemption.Points,
	)
	if err != nil {
		return 0, fmt.Errorf("insert redemption: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListRedemptions(cnpj string) ([]ledger.Redemption, error) {
	rows, err := s.db.Query(
		`SELECT id, cnpj, product_id, points FROM redemptions WHERE cnpj = ? ORDER BY id;`,
		cnpj,
	)
	if err != nil {
		return nil, fmt.Errorf("query redemptions: %w", err)
	}
	defer rows.Close()

	redemptions := make([]ledger.Redemption, 0, 16)
	for rows.Next() {
		var redemption ledger.Redemption
		if err := rows.Scan(&redemption.ID, &redemption.CNPJ, &redemption.ProductID, &redemption.Points); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, redemption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemptions: %w", err)
	}

	return redemptions, nil
}

func (s *SQLiteStore) InsertCategory(category catalog.Category) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO categories (name) VALUES (?);`, category.Name)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) ListCategories() ([]catalog.Category, error) {
	rows, err := s.db.Query(`SELECT id, name FROM categories ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]catalog.Category, 0, 16)
	for rows.Next() {
		var category catalog.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

func (s *SQLiteStore) UpdateCategory(category catalog.Category) error {
	if category.ID <= 0 {
		return fmt.Errorf("category id must be > 0")
	}

	res, err := s.db.Exec(`UPDATE categories SET name = ? WHERE id = ?;`, category.Name, category.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", category.ID, err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteStore) DeleteCategory(id int64) (bool, error) {
	return s.deleteByID("categories", id)
}

func (s *SQLiteStore) InsertProduct(product catalog.Product) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO products (category_id, name, description, active) VALUES (?, ?, ?, ?);`,
		product.CategoryID,
		product.Name,
		product.Description,
		boolToInt(product.Active),
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) GetProductByID(id int64) (catalog.Product, bool, error) {
	if id <= 0 {
		return catalog.Product{}, false, fmt.Errorf("product id must be > 0")
	}

	var (
		product catalog.Product
		active  int
	)
	err := s.db.QueryRow(
		`SELECT id, category_id, name, description, active FROM products WHERE id = ?;`,
		id,
	).Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Product{}, false, nil
		}
		return catalog.Product{}, false, fmt.Errorf("query product %d: %w", id, err)
	}

	product.Active = active != 0
	return product, true, nil
}

func (s *SQLiteStore) ListProducts() ([]catalog.Product, error) {
	rows, err := s.db.Query(`SELECT id, category_id, name, description, active FROM products ORDER BY name, id;`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]catalog.Product, 0, 32)
	for rows.Next() {
		var (
			product catalog.Product
			active  int
		)
		if err := rows.Scan(&product.ID, &product.CategoryID, &product.Name, &product.Description, &active); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		product.Active = active != 0
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (s *SQLiteStore) UpdateProduct(product catalog.Product) error {
	if product.ID <= 0 {
		return fmt.Errorf("product id must be > 0")
	}

	res, err := s.db.Exec(
		`UPDATE products SET category_id = ?, name = ?, description = ?, active = ? WHERE id = ?;`,
		product.CategoryID,
		product.Name,
		product.Description,
		boolToInt(product.Active),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return requireRowAffected(res)
}

func (s *SQLiteStore) DeleteProduct(id int64) (bool, error) {
	return s.deleteByID("products", id)
}

func (s *SQLiteStore) InsertPrice(price catalog.Price) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO prices (product_id, points) VALUES (?, ?);`,
		price.ProductID,
		price.Points,
	)
	if err != nil {
		return 0, fmt.Errorf("insert price: %w", err)
	}
	return lastInsertID(res)
}

// CurrentPrice returns the most recent price point of the product.
func (s *SQLiteStore) CurrentPrice(productID int64) (float64, bool, error) {
	if productID <= 0 {
		return 0, false, fmt.Errorf("product id must be > 0")
	}

	var points float64
	err := s.db.QueryRow(
		`SELECT points FROM prices WHERE product_id = ? ORDER BY id DESC LIMIT 1;`,
		productID,
	).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query current price for product %d: %w", productID, err)
	}
	return points, true, nil
}

func (s *SQLiteStore) InsertProductImage(image catalog.ProductImage) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO product_images (product_id, file_name, position) VALUES (?, ?, ?);`,
		image.ProductID,
		image.FileName,
		image.Position,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product image: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) ListProductImages(productID int64) ([]catalog.ProductImage, error) {
	rows, err := s.db.Query(
		`SELECT id, product_id, file_name, position FROM product_images WHERE product_id = ? ORDER BY position, id;`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query product images: %w", err)
	}
	defer rows.Close()

	images := make([]catalog.ProductImage, 0, 8)
	for rows.Next() {
		var image catalog.ProductImage
		if err := rows.Scan(&image.ID, &image.ProductID, &image.FileName, &image.Position); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product images: %w", err)
	}

	return images, nil
}

func (s *SQLiteStore) DeleteProductImage(id int64) (bool, error) {
	return s.deleteByID("product_images", id)
}

func (s *SQLiteStore) InsertBanner(banner catalog.Banner) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO banners (title, image_file, link_url, position) VALUES (?, ?, ?, ?);`,
		banner.Title,
		banner.ImageFile,
		banner.LinkURL,
		banner.Position,
	)
	if err != nil {
		return 0, fmt.Errorf("insert banner: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) ListBanners() ([]catalog.Banner, error) {
	rows, err := s.db.Query(`SELECT id, title, image_file, link_url, position FROM banners ORDER BY position, id;`)
	if err != nil {
		return nil, fmt.Errorf("query banners: %w", err)
	}
	defer rows.Close()

	banners := make([]catalog.Banner, 0, 8)
	for rows.Next() {
		var banner catalog.Banner
		if err := rows.Scan(&banner.ID, &banner.Title, &banner.ImageFile, &banner.LinkURL, &banner.Position); err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		banners = append(banners, banner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banners: %w", err)
	}

	return banners, nil
}

func (s *SQLiteStore) DeleteBanner(id int64) (bool, error) {
	return s.deleteByID("banners", id)
}

func (s *SQLiteStore) InsertSizeChart(chart catalog.SizeChart) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO size_charts (product_id, label, image_file) VALUES (?, ?, ?);`,
		chart.ProductID,
		chart.Label,
		chart.ImageFile,
	)
	if err != nil {
		return 0, fmt.Errorf("insert size chart: %w", err)
	}
	return lastInsertID(res)
}

func (s *SQLiteStore) ListSizeCharts(productID int64) ([]catalog.SizeChart, error) {
	rows, err := s.db.Query(
		`SELECT id, product_id, label, image_file FROM size_charts WHERE product_id = ? ORDER BY id;`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("query size charts: %w", err)
	}
	defer rows.Close()

	charts := make([]catalog.SizeChart, 0, 4)
	for rows.Next() {
		var chart catalog.SizeChart
		if err := rows.Scan(&chart.ID, &chart.ProductID, &chart.Label, &chart.ImageFile); err != nil {
			return nil, fmt.Errorf("scan size chart: %w", err)
		}
		charts = append(charts, chart)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate size charts: %w", err)
	}

	return charts, nil
}

func (s *SQLiteStore) DeleteSizeChart(id int64) (bool, error) {
	return s.deleteByID("size_charts", id)
}

func (s *SQLiteStore) deleteByID(table string, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("id must be > 0")
	}

	res, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

func requireRowAffected(res sql.Result) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
