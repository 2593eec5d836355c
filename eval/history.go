package eval

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mriscan/mriclass/model"
	"go-ml.dev/pkg/zorros"
)

/*
History is a sqlite-backed store of training runs and their
per-iteration metrics, kept so runs can be compared later without
rerunning them.
*/
type History struct {
	db *sql.DB
}

const historySchema = `
create table if not exists runs (
	id integer primary key autoincrement,
	started timestamp not null,
	variant text not null,
	train_samples integer not null,
	test_samples integer not null,
	accuracy real,
	auc real
);
create table if not exists epochs (
	run_id integer not null references runs(id),
	iteration integer not null,
	train_loss real, train_error real,
	test_loss real, test_error real,
	score real
);`

/*
OpenHistory opens or creates a history database
*/
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, zorros.Trace(err)
	}
	if _, err = db.Exec(historySchema); err != nil {
		db.Close()
		return nil, zorros.Trace(err)
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

/*
Begin registers a run and returns its id
*/
func (h *History) Begin(variant string, trainSamples, testSamples int) (int64, error) {
	r, err := h.db.Exec(
		`insert into runs(started, variant, train_samples, test_samples) values(?,?,?,?)`,
		time.Now(), variant, trainSamples, testSamples)
	if err != nil {
		return 0, zorros.Trace(err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, zorros.Trace(err)
	}
	return id, nil
}

/*
Epoch records one iteration of a run
*/
func (h *History) Epoch(run int64, train, test model.Summary, score float64) error {
	_, err := h.db.Exec(
		`insert into epochs(run_id, iteration, train_loss, train_error, test_loss, test_error, score)
		 values(?,?,?,?,?,?,?)`,
		run, train.Iteration, train.Loss, train.Error, test.Loss, test.Error, score)
	if err != nil {
		return zorros.Trace(err)
	}
	return nil
}

/*
Finish stores the final test metrics of a run
*/
func (h *History) Finish(run int64, accuracy, auc float64) error {
	_, err := h.db.Exec(`update runs set accuracy = ?, auc = ? where id = ?`, accuracy, auc, run)
	if err != nil {
		return zorros.Trace(err)
	}
	return nil
}
