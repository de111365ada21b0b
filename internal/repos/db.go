package repos

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the SQLite database, applies the schema and seeds demo data.
// SQLite serialises writers anyway, so the pool is capped at one connection;
// this also keeps ":memory:" databases alive across calls.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (categories/products/shipping/discounts)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dsn)
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
// Repos built on tx inside fn see each other's writes.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('CUSTOMER','STAFF','ADMIN')),
  total_spent NUMERIC NOT NULL DEFAULT 0,
  order_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Catalog
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  sku TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  weight NUMERIC NOT NULL DEFAULT 0 CHECK (weight >= 0),
  allow_backorder INTEGER NOT NULL DEFAULT 0,
  sales_count INTEGER NOT NULL DEFAULT 0,
  images_json TEXT NOT NULL DEFAULT '[]',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(LOWER(name));

CREATE TABLE IF NOT EXISTS inventory_logs(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  change INTEGER NOT NULL,
  reason TEXT NOT NULL,
  reference TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_inventory_logs_product ON inventory_logs(product_id);

-- Carts (one per user)
CREATE TABLE IF NOT EXISTS cart_items(
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price_at_add NUMERIC NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (user_id, product_id)
);

-- Shipping
CREATE TABLE IF NOT EXISTS shipping_zones(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  regions_json TEXT NOT NULL DEFAULT '[]',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS shipping_methods(
  id TEXT PRIMARY KEY,
  zone_id TEXT NOT NULL REFERENCES shipping_zones(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('FLAT_RATE','TABLE_RATE','STORE_PICKUP')),
  flat_rate NUMERIC,
  pickup_address TEXT,
  min_delivery_days INTEGER NOT NULL DEFAULT 0,
  max_delivery_days INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_shipping_methods_zone ON shipping_methods(zone_id);

CREATE TABLE IF NOT EXISTS weight_rates(
  id TEXT PRIMARY KEY,
  method_id TEXT NOT NULL REFERENCES shipping_methods(id) ON DELETE CASCADE,
  min_weight NUMERIC NOT NULL,
  max_weight NUMERIC,
  cost NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_weight_rates_method ON weight_rates(method_id, min_weight);

-- Discounts
CREATE TABLE IF NOT EXISTS discounts(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL CHECK (type IN ('PERCENTAGE','FIXED_AMOUNT','FREE_SHIPPING')),
  value NUMERIC NOT NULL DEFAULT 0,
  max_discount NUMERIC,
  min_order_amount NUMERIC,
  usage_limit INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  start_date TEXT,
  end_date TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_discounts_code ON discounts(UPPER(code));

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL REFERENCES users(id),
  status TEXT NOT NULL DEFAULT 'PENDING',
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'PENDING',
  subtotal NUMERIC NOT NULL,
  discount_amount NUMERIC NOT NULL DEFAULT 0,
  discount_code TEXT NOT NULL DEFAULT '',
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  tax NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  shipping_method_id TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  billing_address TEXT NOT NULL DEFAULT '',
  customer_notes TEXT NOT NULL DEFAULT '',
  tracking_number TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  id TEXT PRIMARY KEY,
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  name TEXT NOT NULL,
  sku TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL,
  total NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

CREATE TABLE IF NOT EXISTS order_status_history(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  changed_by TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_tracking_updates(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  status TEXT NOT NULL,
  message TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products/shipping/discounts")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name,slug) VALUES
	  ('cat-kitchen','Commercial Kitchen','commercial-kitchen'),
	  ('cat-refrigeration','Refrigeration','refrigeration'),
	  ('cat-power','Power & Generators','power-generators')`)

	tx.MustExec(`INSERT INTO products(id,category_id,name,slug,sku,description,price,stock_quantity,weight,allow_backorder,images_json) VALUES
	  ('prd-blender-2l','cat-kitchen','Industrial Blender 2L','industrial-blender-2l','KT-BL-002','Heavy-duty 2L commercial blender',85000,12,4.5,0,'["products/blender-2l/main.jpg"]'),
	  ('prd-gas-cooker','cat-kitchen','6-Burner Gas Cooker','6-burner-gas-cooker','KT-GC-006','Stainless 6-burner cooker with oven',620000,3,95,0,'["products/gas-cooker/main.jpg"]'),
	  ('prd-chest-freezer','cat-refrigeration','Chest Freezer 500L','chest-freezer-500l','RF-CF-500','Commercial chest freezer, 500 litres',455000,5,68,1,'["products/chest-freezer/main.jpg"]'),
	  ('prd-gen-10kva','cat-power','10kVA Diesel Generator','10kva-diesel-generator','PW-DG-010','Soundproof diesel generator',3150000,2,320,0,'["products/gen-10kva/main.jpg"]')`)

	tx.MustExec(`INSERT INTO shipping_zones(id,name,description,regions_json) VALUES
	  ('zone-lagos','Lagos','Lagos metropolis','["Lagos"]'),
	  ('zone-southwest','South West','Rest of the South West','["Ogun","Oyo","Osun","Ondo","Ekiti"]'),
	  ('zone-north','North','Northern states and FCT','["FCT","Kano","Kaduna","Plateau","Niger"]')`)

	tx.MustExec(`INSERT INTO shipping_methods(id,zone_id,name,type,flat_rate,pickup_address,min_delivery_days,max_delivery_days) VALUES
	  ('ship-lagos-std','zone-lagos','Standard Delivery','TABLE_RATE',NULL,NULL,1,3),
	  ('ship-lagos-pickup','zone-lagos','Pickup at Apapa Showroom','STORE_PICKUP',NULL,'14 Creek Road, Apapa, Lagos',0,1),
	  ('ship-sw-flat','zone-southwest','Regional Flat Rate','FLAT_RATE',12000,NULL,2,5),
	  ('ship-north-std','zone-north','Haulage','TABLE_RATE',NULL,NULL,4,9)`)

	tx.MustExec(`INSERT INTO weight_rates(id,method_id,min_weight,max_weight,cost) VALUES
	  ('wr-lagos-1','ship-lagos-std',0,5,2500),
	  ('wr-lagos-2','ship-lagos-std',5,50,7500),
	  ('wr-lagos-3','ship-lagos-std',50,NULL,25000),
	  ('wr-north-1','ship-north-std',0,20,15000),
	  ('wr-north-2','ship-north-std',20,NULL,60000)`)

	tx.MustExec(`INSERT INTO discounts(id,code,description,type,value,max_discount,min_order_amount,usage_limit) VALUES
	  ('disc-welcome','WELCOME10','10% off your first order','PERCENTAGE',10,20000,NULL,NULL),
	  ('disc-freeship','FREESHIP','Free delivery over N100,000','FREE_SHIPPING',0,NULL,100000,500),
	  ('disc-naira5k','SAVE5000','N5,000 off','FIXED_AMOUNT',5000,NULL,50000,100)`)

	return tx.Commit()
}

// seedUsers ensures two CUSTOMERs, one STAFF and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-ada", "ada@equipstore.test", "Ada Okafor", "CUSTOMER", "Passw0rd!"),
		mk("u-tunde", "tunde@equipstore.test", "Tunde Bello", "CUSTOMER", "Passw0rd!"),
		mk("u-staff", "staff@equipstore.test", "Store Staff", "STAFF", "Passw0rd!"),
		mk("u-admin", "admin@equipstore.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
