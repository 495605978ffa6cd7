package database

import (
	"context"
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// schema holds the CREATE TABLE statements for all tables, executed in
// dependency order on startup.  Statements are idempotent so repeated
// starts are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS workshops (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name        VARCHAR(255) NOT NULL,
		description TEXT,
		starts_at   DATETIME NULL,
		category    ENUM('PUBLIC','BUSINESS','KIT') NOT NULL DEFAULT 'PUBLIC',
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		active      TINYINT(1) NOT NULL DEFAULT 1,
		image_url   VARCHAR(512) NULL,
		location    VARCHAR(255) NULL,
		total_seats INT UNSIGNED NOT NULL DEFAULT 10,
		seats_taken INT UNSIGNED NOT NULL DEFAULT 0,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS customers (
		id               BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name             VARCHAR(255) NOT NULL,
		email            VARCHAR(255) NOT NULL,
		phone            VARCHAR(64) NULL,
		interests        TEXT NULL,
		registered_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		password_hash    VARCHAR(255) NULL,
		role             ENUM('CUSTOMER','ADMIN') NOT NULL DEFAULT 'CUSTOMER',
		verified         TINYINT(1) NOT NULL DEFAULT 0,
		verify_token     VARCHAR(64) NULL,
		reset_token      VARCHAR(64) NULL,
		reset_expires_at DATETIME NULL,
		UNIQUE KEY uq_customers_email (email),
		UNIQUE KEY uq_customers_verify_token (verify_token)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS enrollments (
		id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		customer_id  BIGINT UNSIGNED NOT NULL,
		workshop_id  BIGINT UNSIGNED NOT NULL,
		enrolled_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		cancel_token VARCHAR(64) NOT NULL,
		UNIQUE KEY uq_enrollments_cancel_token (cancel_token),
		CONSTRAINT fk_enroll_customer FOREIGN KEY (customer_id) REFERENCES customers(id),
		CONSTRAINT fk_enroll_workshop FOREIGN KEY (workshop_id) REFERENCES workshops(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS loyalty_notes (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		customer_id BIGINT UNSIGNED NOT NULL,
		body        TEXT NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_notes_customer FOREIGN KEY (customer_id) REFERENCES customers(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS products (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name        VARCHAR(255) NOT NULL,
		description TEXT,
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		stock       INT UNSIGNED NOT NULL DEFAULT 0,
		active      TINYINT(1) NOT NULL DEFAULT 1,
		image_url   VARCHAR(512) NULL
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS orders (
		id             BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		customer_name  VARCHAR(255) NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		total_cents    INT UNSIGNED NOT NULL,
		status         ENUM('PENDING','PAID') NOT NULL DEFAULT 'PENDING',
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id               BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		order_id         BIGINT UNSIGNED NOT NULL,
		product_id       BIGINT UNSIGNED NOT NULL,
		quantity         INT UNSIGNED NOT NULL,
		unit_price_cents INT UNSIGNED NOT NULL,
		CONSTRAINT fk_items_order FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
		CONSTRAINT fk_items_product FOREIGN KEY (product_id) REFERENCES products(id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS contact_messages (
		id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		body       TEXT NOT NULL,
		is_read    TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,
}

// Init creates all tables and seeds the default admin account.
func Init(ctx context.Context, db *sql.DB, adminEmail, adminPassword string, bcryptCost int) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return bootstrapAdmin(ctx, db, adminEmail, adminPassword, bcryptCost)
}

// bootstrapAdmin inserts an ADMIN customer with the configured
// credentials when none exists yet.  The default credential is an
// operational concern; operators are expected to change it after the
// first login.
func bootstrapAdmin(ctx context.Context, db *sql.DB, email, password string, cost int) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE role = 'ADMIN'`).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO customers (name, email, password_hash, role, verified) VALUES (?, ?, ?, 'ADMIN', 1)`,
		"Studio Admin", email, string(hash))
	if err != nil {
		return err
	}
	log.Printf("bootstrap: default admin account created (%s)", email)
	return nil
}
