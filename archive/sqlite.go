package archive

import (
	"database/sql"
	"encoding/json"
	"time"

	bs "github.com/123rugby/dnnwsp"
	"github.com/pkg/errors"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

// Vectors (the coefficients and sparseness of a layer at one step, or the parameters of a layer)
// are stored as JSON text, so that node-wise runs don't need a row per node.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS runs(
		id TEXT PRIMARY KEY,
		created TEXT NOT NULL,
		config TEXT NOT NULL,
		final_beta TEXT,
		final_sparseness TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS steps(
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		epoch INTEGER NOT NULL,
		learning_rate REAL NOT NULL,
		cost REAL NOT NULL,
		PRIMARY KEY(run_id, step)
	)`,
	`CREATE TABLE IF NOT EXISTS layer_steps(
		run_id TEXT NOT NULL,
		layer INTEGER NOT NULL,
		step INTEGER NOT NULL,
		beta TEXT NOT NULL,
		sparseness TEXT NOT NULL,
		PRIMARY KEY(run_id, layer, step)
	)`,
	`CREATE TABLE IF NOT EXISTS epochs(
		run_id TEXT NOT NULL,
		epoch INTEGER NOT NULL,
		learning_rate REAL NOT NULL,
		cost REAL NOT NULL,
		train_error REAL,
		test_error REAL,
		PRIMARY KEY(run_id, epoch)
	)`,
	`CREATE TABLE IF NOT EXISTS params(
		run_id TEXT NOT NULL,
		layer INTEGER NOT NULL,
		weights TEXT NOT NULL,
		biases TEXT NOT NULL,
		PRIMARY KEY(run_id, layer)
	)`,
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't open database %q\n", path)
	}

	for _, t := range tables {
		if _, err = db.Exec(t); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "Couldn't create tables in database %q\n", path)
		}
	}

	return db, nil
}

// SaveSQLite adds the run to the SQLite database at path, creating it if it doesn't exist. The run
// is written in a single transaction; a run with the same ID must not already be present.
func SaveSQLite(path string, c *Contents) (err error) {
	if c == nil {
		return errors.Errorf("Can't save archive, contents are nil")
	}

	db, err := openDB(path)
	if err != nil {
		return errors.Wrapf(err, "Can't save archive\n")
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrapf(err, "Can't save archive, couldn't begin transaction\n")
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = insertRun(tx, c); err != nil {
		return errors.Wrapf(err, "Failed to save run %s\n", c.ID)
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "Failed to commit run %s\n", c.ID)
	}

	return nil
}

func insertRun(tx *sql.Tx, c *Contents) error {
	cfg, err := json.Marshal(c.Config)
	if err != nil {
		return errors.Wrapf(err, "Couldn't encode config\n")
	}

	finalBeta, err := json.Marshal(c.FinalBeta)
	if err != nil {
		return err
	}

	finalSparseness, err := json.Marshal(c.FinalSparseness)
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT INTO runs(id, created, config, final_beta, final_sparseness) VALUES(?,?,?,?,?)",
		c.ID, c.Created.UTC().Format(time.RFC3339), string(cfg), string(finalBeta), string(finalSparseness))
	if err != nil {
		return errors.Wrapf(err, "Couldn't insert run\n")
	}

	for _, s := range c.Steps {
		_, err = tx.Exec("INSERT INTO steps(run_id, step, epoch, learning_rate, cost) VALUES(?,?,?,?,?)",
			c.ID, s.Step, s.Epoch, s.LearningRate, s.Cost)
		if err != nil {
			return errors.Wrapf(err, "Couldn't insert step %d\n", s.Step)
		}
	}

	if len(c.Beta) != len(c.Sparseness) {
		return errors.Errorf("Coefficients and sparseness have a different number of layers (%d != %d)", len(c.Beta), len(c.Sparseness))
	}

	for l := range c.Beta {
		if len(c.Beta[l]) != len(c.Sparseness[l]) {
			return errors.Errorf("Layer %d has %d coefficient records but %d sparseness records", l, len(c.Beta[l]), len(c.Sparseness[l]))
		}

		for i := range c.Beta[l] {
			beta, err := json.Marshal(c.Beta[l][i])
			if err != nil {
				return err
			}

			hsp, err := json.Marshal(c.Sparseness[l][i])
			if err != nil {
				return err
			}

			_, err = tx.Exec("INSERT INTO layer_steps(run_id, layer, step, beta, sparseness) VALUES(?,?,?,?,?)",
				c.ID, l, i+1, string(beta), string(hsp))
			if err != nil {
				return errors.Wrapf(err, "Couldn't insert step %d of layer %d\n", i+1, l)
			}
		}
	}

	for _, e := range c.Epochs {
		var trainErr, testErr sql.NullFloat64
		if e.Evaluated {
			trainErr = sql.NullFloat64{Float64: e.TrainError, Valid: true}
			testErr = sql.NullFloat64{Float64: e.TestError, Valid: e.HasTest}
		}

		_, err = tx.Exec("INSERT INTO epochs(run_id, epoch, learning_rate, cost, train_error, test_error) VALUES(?,?,?,?,?,?)",
			c.ID, e.Epoch, e.LearningRate, e.Cost, trainErr, testErr)
		if err != nil {
			return errors.Wrapf(err, "Couldn't insert epoch %d\n", e.Epoch)
		}
	}

	for l, p := range c.Params {
		ws, err := json.Marshal(p.Weights)
		if err != nil {
			return err
		}

		bias, err := json.Marshal(p.Biases)
		if err != nil {
			return err
		}

		_, err = tx.Exec("INSERT INTO params(run_id, layer, weights, biases) VALUES(?,?,?,?)",
			c.ID, l, string(ws), string(bias))
		if err != nil {
			return errors.Wrapf(err, "Couldn't insert parameters of layer %d\n", l)
		}
	}

	return nil
}

// ListRuns returns the IDs of the runs in the database at path, in the order they were saved.
// Creation times only have a precision of one second, so they can't be used to order runs.
func ListRuns(path string) ([]string, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't list runs\n")
	}
	defer db.Close()

	rows, err := db.Query("SELECT id FROM runs ORDER BY rowid ASC")
	if err != nil {
		return nil, errors.Wrapf(err, "Can't list runs\n")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, errors.Wrapf(err, "Can't list runs\n")
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// LoadSQLite reads the run with the given ID from the SQLite database at path.
func LoadSQLite(path, id string) (*Contents, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load run %s\n", id)
	}
	defer db.Close()

	c := new(Contents)
	if err = loadRun(db, id, c); err != nil {
		return nil, errors.Wrapf(err, "Can't load run %s\n", id)
	}

	return c, nil
}

func loadRun(db *sql.DB, id string, c *Contents) error {
	var created, cfg string
	var finalBeta, finalSparseness sql.NullString

	err := db.QueryRow("SELECT created, config, final_beta, final_sparseness FROM runs WHERE id = ?", id).
		Scan(&created, &cfg, &finalBeta, &finalSparseness)
	if err == sql.ErrNoRows {
		return errors.Errorf("No run with ID %s", id)
	} else if err != nil {
		return err
	}

	c.ID = id
	if c.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return errors.Wrapf(err, "Bad creation time %q\n", created)
	}
	if err = json.Unmarshal([]byte(cfg), &c.Config); err != nil {
		return errors.Wrapf(err, "Bad config\n")
	}
	if err = unmarshalNull(finalBeta, &c.FinalBeta); err != nil {
		return err
	}
	if err = unmarshalNull(finalSparseness, &c.FinalSparseness); err != nil {
		return err
	}

	if err = loadSteps(db, c); err != nil {
		return err
	}
	if err = loadLayerSteps(db, c); err != nil {
		return err
	}
	if err = loadEpochs(db, c); err != nil {
		return err
	}

	return loadParams(db, c)
}

func unmarshalNull(s sql.NullString, v interface{}) error {
	if !s.Valid {
		return nil
	}

	return errors.Wrapf(json.Unmarshal([]byte(s.String), v), "Bad JSON value %q\n", s.String)
}

func loadSteps(db *sql.DB, c *Contents) error {
	rows, err := db.Query("SELECT step, epoch, learning_rate, cost FROM steps WHERE run_id = ? ORDER BY step", c.ID)
	if err != nil {
		return errors.Wrapf(err, "Couldn't query steps\n")
	}
	defer rows.Close()

	for rows.Next() {
		var s Step
		if err = rows.Scan(&s.Step, &s.Epoch, &s.LearningRate, &s.Cost); err != nil {
			return errors.Wrapf(err, "Couldn't read step\n")
		}

		c.Steps = append(c.Steps, s)
	}

	return rows.Err()
}

func loadLayerSteps(db *sql.DB, c *Contents) error {
	rows, err := db.Query("SELECT layer, beta, sparseness FROM layer_steps WHERE run_id = ? ORDER BY layer, step", c.ID)
	if err != nil {
		return errors.Wrapf(err, "Couldn't query layer steps\n")
	}
	defer rows.Close()

	for rows.Next() {
		var l int
		var beta, hsp string
		if err = rows.Scan(&l, &beta, &hsp); err != nil {
			return errors.Wrapf(err, "Couldn't read layer step\n")
		}

		for len(c.Beta) <= l {
			c.Beta = append(c.Beta, nil)
			c.Sparseness = append(c.Sparseness, nil)
		}

		var b, h []float64
		if err = json.Unmarshal([]byte(beta), &b); err != nil {
			return errors.Wrapf(err, "Bad coefficients in layer %d\n", l)
		}
		if err = json.Unmarshal([]byte(hsp), &h); err != nil {
			return errors.Wrapf(err, "Bad sparseness in layer %d\n", l)
		}

		c.Beta[l] = append(c.Beta[l], b)
		c.Sparseness[l] = append(c.Sparseness[l], h)
	}

	return rows.Err()
}

func loadEpochs(db *sql.DB, c *Contents) error {
	rows, err := db.Query("SELECT epoch, learning_rate, cost, train_error, test_error FROM epochs WHERE run_id = ? ORDER BY epoch", c.ID)
	if err != nil {
		return errors.Wrapf(err, "Couldn't query epochs\n")
	}
	defer rows.Close()

	for rows.Next() {
		var e bs.EpochRecord
		var trainErr, testErr sql.NullFloat64
		if err = rows.Scan(&e.Epoch, &e.LearningRate, &e.Cost, &trainErr, &testErr); err != nil {
			return errors.Wrapf(err, "Couldn't read epoch\n")
		}

		e.Evaluated, e.TrainError = trainErr.Valid, trainErr.Float64
		e.HasTest, e.TestError = testErr.Valid, testErr.Float64

		c.Epochs = append(c.Epochs, e)
	}

	return rows.Err()
}

func loadParams(db *sql.DB, c *Contents) error {
	rows, err := db.Query("SELECT weights, biases FROM params WHERE run_id = ? ORDER BY layer", c.ID)
	if err != nil {
		return errors.Wrapf(err, "Couldn't query parameters\n")
	}
	defer rows.Close()

	for rows.Next() {
		var ws, bias string
		if err = rows.Scan(&ws, &bias); err != nil {
			return errors.Wrapf(err, "Couldn't read parameters\n")
		}

		var p Layer
		if err = json.Unmarshal([]byte(ws), &p.Weights); err != nil {
			return errors.Wrapf(err, "Bad weights\n")
		}
		if err = json.Unmarshal([]byte(bias), &p.Biases); err != nil {
			return errors.Wrapf(err, "Bad biases\n")
		}

		c.Params = append(c.Params, p)
	}

	return rows.Err()
}
