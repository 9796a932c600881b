package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/train-seat-reservation/internal/config"
	"github.com/iliyamo/train-seat-reservation/internal/database"
	"github.com/iliyamo/train-seat-reservation/internal/model"
)

type seedSchedule struct {
	trainNumber   string
	origin        string
	destination   string
	daysAhead     int
	departureTime string
	arrivalTime   string
	fare          float64
}

// Fixture data for a local instance: five trains and ten schedules
// spread over the next two days.  The seeder is idempotent at the
// table level; it does nothing when trains already exist.
var trains = []model.Train{
	{Number: "TR001", Name: "Rajdhani Express", Class: model.FirstClass, TotalSeats: 300},
	{Number: "TR002", Name: "Shatabdi Express", Class: model.FirstClass, TotalSeats: 250},
	{Number: "TR003", Name: "Duronto Express", Class: model.SecondClass, TotalSeats: 400},
	{Number: "TR004", Name: "Garib Rath", Class: model.ThirdClass, TotalSeats: 500},
	{Number: "TR005", Name: "Jan Shatabdi", Class: model.SecondClass, TotalSeats: 350},
}

var schedules = []seedSchedule{
	{"TR001", "Delhi", "Mumbai", 1, "16:00", "08:00", 2500},
	{"TR001", "Mumbai", "Delhi", 2, "17:00", "09:00", 2500},
	{"TR002", "Delhi", "Chandigarh", 1, "07:15", "10:45", 800},
	{"TR002", "Chandigarh", "Delhi", 1, "12:00", "15:30", 800},
	{"TR003", "Kolkata", "Delhi", 1, "20:05", "16:50", 1800},
	{"TR003", "Delhi", "Kolkata", 2, "21:00", "17:45", 1800},
	{"TR004", "Delhi", "Chennai", 1, "15:35", "20:15", 1200},
	{"TR004", "Chennai", "Delhi", 2, "06:10", "10:45", 1200},
	{"TR005", "Mumbai", "Pune", 1, "08:30", "11:55", 600},
	{"TR005", "Pune", "Mumbai", 2, "18:00", "21:25", 600},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trains`).Scan(&count); err != nil {
		log.Fatalf("train count failed: %v", err)
	}
	if count > 0 {
		log.Printf("trains table already has %d rows, nothing to do", count)
		return
	}

	log.Println("seeding trains...")
	trainIDs := make(map[string]uint64, len(trains))
	for _, t := range trains {
		res, err := db.ExecContext(ctx,
			`INSERT INTO trains (train_number, train_name, train_class, total_seats) VALUES (?, ?, ?, ?)`,
			t.Number, t.Name, t.Class, t.TotalSeats)
		if err != nil {
			log.Fatalf("insert train %s: %v", t.Number, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			log.Fatalf("insert train %s: %v", t.Number, err)
		}
		trainIDs[t.Number] = uint64(id)
		log.Printf("train %s (%s) seeded", t.Number, t.Name)
	}

	log.Println("seeding schedules...")
	for _, s := range schedules {
		if err := insertSchedule(ctx, db, trainIDs, s); err != nil {
			log.Fatalf("insert schedule %s %s-%s: %v", s.trainNumber, s.origin, s.destination, err)
		}
	}
	log.Printf("seeded %d trains and %d schedules", len(trains), len(schedules))
}

func insertSchedule(ctx context.Context, db *sql.DB, trainIDs map[string]uint64, s seedSchedule) error {
	var seats int
	for _, t := range trains {
		if t.Number == s.trainNumber {
			seats = t.TotalSeats
		}
	}
	date := time.Now().AddDate(0, 0, s.daysAhead).Format("2006-01-02")
	_, err := db.ExecContext(ctx,
		`INSERT INTO schedules
		   (train_id, origin, destination, service_date, departure_time, arrival_time,
		    fare, total_seats, available_seats, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		trainIDs[s.trainNumber], s.origin, s.destination, date,
		s.departureTime, s.arrivalTime, s.fare, seats, seats)
	return err
}
