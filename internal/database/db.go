package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the table definitions for the reservation service.  The
// version column on schedules backs the optimistic seat-counter write;
// the CHECK constraint enforces 0 <= available_seats <= total_seats at
// the storage layer as well.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS trains (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		train_number VARCHAR(16)  NOT NULL UNIQUE,
		train_name   VARCHAR(100) NOT NULL,
		train_class  VARCHAR(20)  NOT NULL,
		total_seats  INT          NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		train_id        BIGINT UNSIGNED NOT NULL,
		origin          VARCHAR(100) NOT NULL,
		destination     VARCHAR(100) NOT NULL,
		service_date    DATE         NOT NULL,
		departure_time  TIME         NOT NULL,
		arrival_time    TIME         NOT NULL,
		fare            DOUBLE       NOT NULL,
		total_seats     INT          NOT NULL,
		available_seats INT          NOT NULL,
		version         BIGINT       NOT NULL DEFAULT 0,
		created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_schedules_train FOREIGN KEY (train_id) REFERENCES trains (id),
		CONSTRAINT chk_available_range CHECK (available_seats >= 0 AND available_seats <= total_seats),
		INDEX idx_schedules_route_date (origin, destination, service_date)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		schedule_id     BIGINT UNSIGNED NOT NULL,
		passenger_name  VARCHAR(100) NOT NULL,
		passenger_email VARCHAR(255) NOT NULL,
		passenger_phone VARCHAR(20)  NULL,
		seat_count      INT          NOT NULL,
		total_amount    DOUBLE       NOT NULL,
		status          VARCHAR(20)  NOT NULL,
		pnr             VARCHAR(16)  NOT NULL UNIQUE,
		created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_bookings_schedule FOREIGN KEY (schedule_id) REFERENCES schedules (id)
	)`,
}

// EnsureSchema creates the service's tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
