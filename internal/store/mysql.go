package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenMySQL connects to MySQL and verifies the connection.
func OpenMySQL(user, pass, host, port, name string) (*sql.DB, error) {
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

// MySQL persists snapshots in MySQL. Every save rewrites the full
// state inside one transaction, which keeps the schema trivial and the
// load path free of merge logic; the engine is the system of record
// while running.
type MySQL struct {
	db *sql.DB
}

// NewMySQL returns a MySQL store over db.
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// DB exposes the underlying pool for health checks.
func (m *MySQL) DB() *sql.DB { return m.db }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS owners (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS accommodations (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		owner_id BIGINT UNSIGNED NOT NULL,
		type VARCHAR(16) NOT NULL,
		name VARCHAR(100) NOT NULL,
		address VARCHAR(200) NOT NULL,
		KEY idx_accommodations_owner (owner_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		accommodation_id BIGINT UNSIGNED NOT NULL,
		type VARCHAR(16) NOT NULL,
		price_per_night_cents BIGINT NOT NULL,
		KEY idx_rooms_accommodation (accommodation_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booked_ranges (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		room_id BIGINT UNSIGNED NOT NULL,
		start_at DATETIME(6) NOT NULL,
		end_at DATETIME(6) NOT NULL,
		KEY idx_booked_ranges_room (room_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		client_id BIGINT UNSIGNED NOT NULL,
		accommodation_id BIGINT UNSIGNED NOT NULL,
		room_id BIGINT UNSIGNED NOT NULL,
		accommodation_type VARCHAR(16) NOT NULL,
		check_in DATETIME(6) NOT NULL,
		check_out DATETIME(6) NOT NULL,
		status VARCHAR(16) NOT NULL,
		total_cost_cents BIGINT NOT NULL,
		amount_paid_cents BIGINT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY idx_reservations_client (client_id),
		KEY idx_reservations_room (room_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		reservation_id BIGINT UNSIGNED NOT NULL,
		amount_cents BIGINT NOT NULL,
		paid_at DATETIME(6) NOT NULL,
		method VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL,
		reference CHAR(36) NOT NULL,
		KEY idx_payments_reservation (reservation_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the snapshot tables when they do not exist yet.
func (m *MySQL) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Save implements Store. The previous snapshot is deleted and the new
// one inserted in a single transaction, children first on delete and
// parents first on insert.
func (m *MySQL) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"payments", "reservations", "booked_ranges", "rooms", "accommodations", "clients", "owners"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertOwners(ctx, tx, snap.Owners); err != nil {
		return err
	}
	if err := insertClients(ctx, tx, snap.Clients); err != nil {
		return err
	}
	if err := insertAccommodations(ctx, tx, snap.Accommodations); err != nil {
		return err
	}
	if err := insertReservations(ctx, tx, snap.Reservations); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	committed = true
	return nil
}

func insertOwners(ctx context.Context, tx *sql.Tx, owners []OwnerRecord) error {
	if len(owners) == 0 {
		return nil
	}
	query := `INSERT INTO owners (id, name, email, phone) VALUES `
	args := make([]interface{}, 0, len(owners)*4)
	for i, o := range owners {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, o.ID, o.Name, o.Email, o.Phone)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert owners: %w", err)
	}
	return nil
}

func insertClients(ctx context.Context, tx *sql.Tx, clients []ClientRecord) error {
	if len(clients) == 0 {
		return nil
	}
	query := `INSERT INTO clients (id, name, email, phone) VALUES `
	args := make([]interface{}, 0, len(clients)*4)
	for i, c := range clients {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, c.ID, c.Name, c.Email, c.Phone)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert clients: %w", err)
	}
	return nil
}

func insertAccommodations(ctx context.Context, tx *sql.Tx, accs []AccommodationRecord) error {
	if len(accs) == 0 {
		return nil
	}
	accQuery := `INSERT INTO accommodations (id, owner_id, type, name, address) VALUES `
	accArgs := make([]interface{}, 0, len(accs)*5)
	var roomArgs []interface{}
	var rangeArgs []interface{}
	roomQuery := `INSERT INTO rooms (id, accommodation_id, type, price_per_night_cents) VALUES `
	rangeQuery := `INSERT INTO booked_ranges (room_id, start_at, end_at) VALUES `
	for i, a := range accs {
		if i > 0 {
			accQuery += ","
		}
		accQuery += "(?, ?, ?, ?, ?)"
		accArgs = append(accArgs, a.ID, a.OwnerID, a.Type, a.Name, a.Address)
		for _, r := range a.Rooms {
			if len(roomArgs) > 0 {
				roomQuery += ","
			}
			roomQuery += "(?, ?, ?, ?)"
			roomArgs = append(roomArgs, r.ID, a.ID, r.Type, r.PricePerNightCents)
			for _, rng := range r.BookedRanges {
				if len(rangeArgs) > 0 {
					rangeQuery += ","
				}
				rangeQuery += "(?, ?, ?)"
				rangeArgs = append(rangeArgs, r.ID, rng.Start.UTC(), rng.End.UTC())
			}
		}
	}
	if _, err := tx.ExecContext(ctx, accQuery, accArgs...); err != nil {
		return fmt.Errorf("insert accommodations: %w", err)
	}
	if len(roomArgs) > 0 {
		if _, err := tx.ExecContext(ctx, roomQuery, roomArgs...); err != nil {
			return fmt.Errorf("insert rooms: %w", err)
		}
	}
	if len(rangeArgs) > 0 {
		if _, err := tx.ExecContext(ctx, rangeQuery, rangeArgs...); err != nil {
			return fmt.Errorf("insert booked ranges: %w", err)
		}
	}
	return nil
}

func insertReservations(ctx context.Context, tx *sql.Tx, ress []ReservationRecord) error {
	if len(ress) == 0 {
		return nil
	}
	resQuery := `INSERT INTO reservations (id, client_id, accommodation_id, room_id, accommodation_type, check_in, check_out, status, total_cost_cents, amount_paid_cents, created_at) VALUES `
	resArgs := make([]interface{}, 0, len(ress)*11)
	var payArgs []interface{}
	payQuery := `INSERT INTO payments (id, reservation_id, amount_cents, paid_at, method, status, reference) VALUES `
	for i, r := range ress {
		if i > 0 {
			resQuery += ","
		}
		resQuery += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		resArgs = append(resArgs, r.ID, r.ClientID, r.AccommodationID, r.RoomID, r.AccommodationType,
			r.CheckIn.UTC(), r.CheckOut.UTC(), r.Status, r.TotalCostCents, r.AmountPaidCents, r.CreatedAt.UTC())
		for _, p := range r.Payments {
			if len(payArgs) > 0 {
				payQuery += ","
			}
			payQuery += "(?, ?, ?, ?, ?, ?, ?)"
			payArgs = append(payArgs, p.ID, p.ReservationID, p.AmountCents, p.Date.UTC(), p.Method, p.Status, p.Reference)
		}
	}
	if _, err := tx.ExecContext(ctx, resQuery, resArgs...); err != nil {
		return fmt.Errorf("insert reservations: %w", err)
	}
	if len(payArgs) > 0 {
		if _, err := tx.ExecContext(ctx, payQuery, payArgs...); err != nil {
			return fmt.Errorf("insert payments: %w", err)
		}
	}
	return nil
}

// Load implements Store. Tables are read parents first and children
// are folded into their parents by id.
func (m *MySQL) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	owners, err := m.loadOwners(ctx)
	if err != nil {
		return nil, err
	}
	snap.Owners = owners

	clients, err := m.loadClients(ctx)
	if err != nil {
		return nil, err
	}
	snap.Clients = clients

	accs, err := m.loadAccommodations(ctx)
	if err != nil {
		return nil, err
	}
	snap.Accommodations = accs

	// Owner association is derived from the accommodations they hold.
	byOwner := make(map[uint64][]uint64)
	for _, a := range accs {
		byOwner[a.OwnerID] = append(byOwner[a.OwnerID], a.ID)
	}
	for i := range snap.Owners {
		snap.Owners[i].AccommodationIDs = byOwner[snap.Owners[i].ID]
	}

	ress, err := m.loadReservations(ctx)
	if err != nil {
		return nil, err
	}
	snap.Reservations = ress
	return snap, nil
}

func (m *MySQL) loadOwners(ctx context.Context) ([]OwnerRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, name, email, phone FROM owners ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	defer rows.Close()
	var out []OwnerRecord
	for rows.Next() {
		var o OwnerRecord
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Phone); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (m *MySQL) loadClients(ctx context.Context) ([]ClientRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, name, email, phone FROM clients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	defer rows.Close()
	var out []ClientRecord
	for rows.Next() {
		var c ClientRecord
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (m *MySQL) loadAccommodations(ctx context.Context) ([]AccommodationRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, owner_id, type, name, address FROM accommodations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load accommodations: %w", err)
	}
	defer rows.Close()
	var accs []AccommodationRecord
	index := make(map[uint64]int)
	for rows.Next() {
		var a AccommodationRecord
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Type, &a.Name, &a.Address); err != nil {
			return nil, fmt.Errorf("scan accommodation: %w", err)
		}
		index[a.ID] = len(accs)
		accs = append(accs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roomRows, err := m.db.QueryContext(ctx, `SELECT id, accommodation_id, type, price_per_night_cents FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	defer roomRows.Close()
	roomIndex := make(map[uint64]struct{ acc, room int })
	for roomRows.Next() {
		var r RoomRecord
		var accID uint64
		if err := roomRows.Scan(&r.ID, &accID, &r.Type, &r.PricePerNightCents); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		ai, ok := index[accID]
		if !ok {
			return nil, fmt.Errorf("room %d references missing accommodation %d", r.ID, accID)
		}
		roomIndex[r.ID] = struct{ acc, room int }{ai, len(accs[ai].Rooms)}
		accs[ai].Rooms = append(accs[ai].Rooms, r)
	}
	if err := roomRows.Err(); err != nil {
		return nil, err
	}

	rangeRows, err := m.db.QueryContext(ctx, `SELECT room_id, start_at, end_at FROM booked_ranges ORDER BY room_id, start_at`)
	if err != nil {
		return nil, fmt.Errorf("load booked ranges: %w", err)
	}
	defer rangeRows.Close()
	for rangeRows.Next() {
		var roomID uint64
		var rec RangeRecord
		if err := rangeRows.Scan(&roomID, &rec.Start, &rec.End); err != nil {
			return nil, fmt.Errorf("scan booked range: %w", err)
		}
		pos, ok := roomIndex[roomID]
		if !ok {
			return nil, fmt.Errorf("booked range references missing room %d", roomID)
		}
		room := &accs[pos.acc].Rooms[pos.room]
		room.BookedRanges = append(room.BookedRanges, rec)
	}
	return accs, rangeRows.Err()
}

func (m *MySQL) loadReservations(ctx context.Context) ([]ReservationRecord, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, client_id, accommodation_id, room_id, accommodation_type, check_in, check_out, status, total_cost_cents, amount_paid_cents, created_at FROM reservations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	defer rows.Close()
	var ress []ReservationRecord
	index := make(map[uint64]int)
	for rows.Next() {
		var r ReservationRecord
		if err := rows.Scan(&r.ID, &r.ClientID, &r.AccommodationID, &r.RoomID, &r.AccommodationType,
			&r.CheckIn, &r.CheckOut, &r.Status, &r.TotalCostCents, &r.AmountPaidCents, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		index[r.ID] = len(ress)
		ress = append(ress, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payRows, err := m.db.QueryContext(ctx, `SELECT id, reservation_id, amount_cents, paid_at, method, status, reference FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	defer payRows.Close()
	for payRows.Next() {
		var p PaymentRecord
		if err := payRows.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Date, &p.Method, &p.Status, &p.Reference); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		ri, ok := index[p.ReservationID]
		if !ok {
			return nil, fmt.Errorf("payment %d references missing reservation %d", p.ID, p.ReservationID)
		}
		ress[ri].Payments = append(ress[ri].Payments, p)
	}
	return ress, payRows.Err()
}
