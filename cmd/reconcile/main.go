package main

import (
	"fmt"
	"os"
	"time"

	"tene-backend/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// subjectCount is one row of the recomputed totals, grouped by subject.
type subjectCount struct {
	SubjectID string
	Total     int64
}

// reconcileSubjects recomputes like_count for every row of the given table
// from the likes membership rows, and reports how many rows were out of sync.
func reconcileSubjects(db *gorm.DB, subject models.LikeSubject, table string, dryRun bool) (int64, error) {
	var counts []subjectCount
	err := db.Model(&models.Like{}).
		Select("subject_id, count(*) as total").
		Where("subject_type = ?", subject).
		Group("subject_id").
		Find(&counts).Error
	if err != nil {
		return 0, errors.Wrapf(err, "could not aggregate likes for %s", table)
	}

	totals := make(map[string]int64, len(counts))
	for _, c := range counts {
		totals[c.SubjectID] = c.Total
	}

	type subjectRow struct {
		ID        string
		LikeCount int64
	}

	var rows []subjectRow
	if err := db.Table(table).Select("id, like_count").Find(&rows).Error; err != nil {
		return 0, errors.Wrapf(err, "could not load %s", table)
	}

	var fixed int64
	for _, row := range rows {
		want := totals[row.ID]
		if row.LikeCount == want {
			continue
		}

		fixed++
		logrus.WithFields(logrus.Fields{
			"table": table,
			"id":    row.ID,
			"have":  row.LikeCount,
			"want":  want,
		}).Warn("found drifted like count")

		if dryRun {
			continue
		}

		err := db.Table(table).
			Where("id = ?", row.ID).
			UpdateColumn("like_count", want).Error
		if err != nil {
			return fixed, errors.Wrapf(err, "could not update %s %s", table, row.ID)
		}
	}

	return fixed, nil
}

func run(c *cli.Context) error {
	databaseURL := c.String("databaseURL")
	dryRun := c.Bool("dryRun")

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return errors.Wrap(err, "cannot connect to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "cannot get the underlying connection")
	}
	defer sqlDB.Close()

	started := time.Now()

	commentsFixed, err := reconcileSubjects(db, models.LikeComment, "comments", dryRun)
	if err != nil {
		return errors.Wrap(err, "could not reconcile comments")
	}

	chaptersFixed, err := reconcileSubjects(db, models.LikeChapter, "chapters", dryRun)
	if err != nil {
		return errors.Wrap(err, "could not reconcile chapters")
	}

	logrus.WithFields(logrus.Fields{
		"comments": commentsFixed,
		"chapters": chaptersFixed,
		"dryRun":   dryRun,
		"took":     time.Since(started).String(),
	}).Info("finished reconciling like counts")

	return nil
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cli.NewApp()
	app.Name = "reconcile"
	app.Usage = "recompute denormalized like counts from the likes table"
	app.Version = fmt.Sprintf("%v, commit %v, built at %v", version, commit, date)
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     "databaseURL",
			Usage:    "URL for the PostgreSQL instance we're reconciling counts on",
			Required: true,
			EnvVars:  []string{"DB_URL"},
		},
		&cli.BoolFlag{
			Name:    "dryRun",
			Usage:   "when used, this tool will not write any data to the database",
			EnvVars: []string{"DRY_RUN"},
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal()
	}
}
