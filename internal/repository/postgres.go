package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/pkg/apperr"
	"github.com/0xZumii/cat-tv/pkg/logger"
	"github.com/google/uuid"
)

type DB struct {
	logger *logger.Logger

	Conn *gorm.DB

	// now is swapped out by tests that exercise the cooldown and the
	// midnight reset.
	now func() time.Time
}

// NewPostgresDB opens the production store and migrates the schema.
func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)
	return open(postgres.Open(dsn), logger)
}

// NewSQLiteDB opens a SQLite store. Used by tests and local development.
func NewSQLiteDB(path string, logger *logger.Logger) (models.Repository, error) {
	return open(sqlite.Open(path), logger)
}

func open(dialector gorm.Dialector, logger *logger.Logger) (*DB, error) {
	// Configure GORM logger to suppress "record not found" messages
	gl := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %s", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Cat{},
		&models.FeedEvent{},
		&models.GlobalStats{},
		&models.Purchase{},
		&models.AppLock{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Database connected and migrated")
	return &DB{Conn: db, logger: logger, now: time.Now}, nil
}

func (db *DB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

// locked applies a row lock inside a transaction. SQLite has no FOR UPDATE
// syntax; its write transactions are serialized already.
func (db *DB) locked(tx *gorm.DB) *gorm.DB {
	if db.Conn.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (db *DB) nowMillis() int64 {
	return db.now().UnixMilli()
}

func (db *DB) GetOrCreateUser(userID string) (*models.User, error) {
	var user models.User
	err := db.Conn.
		Where(models.User{ID: userID}).
		Attrs(models.User{CreatedAt: db.nowMillis()}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %s", err)
	}
	return &user, nil
}

func (db *DB) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := db.Conn.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, fmt.Errorf("failed to get user: %s", err)
	}
	return &user, nil
}

func (db *DB) SetUserWallet(userID, walletAddress string) error {
	if err := db.Conn.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_address", walletAddress).Error; err != nil {
		return fmt.Errorf("failed to set user wallet: %s", err)
	}
	return nil
}

// checkClaimCooldown rejects a claim made before the cooldown has elapsed.
func checkClaimCooldown(lastClaimAt, now int64, cooldown time.Duration) error {
	if lastClaimAt == 0 {
		return nil
	}
	elapsed := time.Duration(now-lastClaimAt) * time.Millisecond
	if elapsed >= cooldown {
		return nil
	}
	remaining := cooldown - elapsed
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)
	return apperr.New(apperr.FailedPrecondition,
		"Already claimed today. Next claim in %dh %dm", hours, minutes)
}

// loadOrCreateUser loads the user row inside tx, creating a fresh one when
// the first authenticated call is the claim itself.
func (db *DB) loadOrCreateUser(tx *gorm.DB, userID string, user *models.User) error {
	err := db.locked(tx).Where("id = ?", userID).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		*user = models.User{ID: userID, CreatedAt: db.nowMillis()}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %s", err)
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to load user: %s", err)
	}
	return nil
}

func (db *DB) ClaimDaily(userID string, amount int64, cooldown time.Duration) (*models.User, error) {
	var user models.User
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := db.loadOrCreateUser(tx, userID, &user); err != nil {
			return err
		}

		now := db.nowMillis()
		if err := checkClaimCooldown(user.LastClaimAt, now, cooldown); err != nil {
			return err
		}

		user.Balance += amount
		user.LastClaimAt = now
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to save user: %s", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReserveClaim stamps the cooldown without touching the balance. Used in
// chain ledger mode, where the faucet contract pays out: the caller reverts
// the stamp when the payout transaction fails.
func (db *DB) ReserveClaim(userID string, cooldown time.Duration) (int64, error) {
	var prev int64
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := db.loadOrCreateUser(tx, userID, &user); err != nil {
			return err
		}

		now := db.nowMillis()
		if err := checkClaimCooldown(user.LastClaimAt, now, cooldown); err != nil {
			return err
		}

		prev = user.LastClaimAt
		user.LastClaimAt = now
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to save user: %s", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return prev, nil
}

func (db *DB) RevertClaim(userID string, lastClaimAt int64) error {
	if err := db.Conn.Model(&models.User{}).Where("id = ?", userID).
		Update("last_claim_at", lastClaimAt).Error; err != nil {
		return fmt.Errorf("failed to revert claim: %s", err)
	}
	return nil
}

// startOfDayMillis returns local midnight of the moment t, as unix millis.
func startOfDayMillis(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).UnixMilli()
}

func (db *DB) Feed(userID, catID string, cost int64, maxDailyFeeds int) (*models.FeedOutcome, error) {
	outcome := &models.FeedOutcome{}
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := db.locked(tx).Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "User not found")
			}
			return fmt.Errorf("failed to load user: %s", err)
		}

		var cat models.Cat
		if err := db.locked(tx).Where("id = ?", catID).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Cat not found")
			}
			return fmt.Errorf("failed to load cat: %s", err)
		}

		var stats models.GlobalStats
		if err := db.locked(tx).Where(models.GlobalStats{ID: 1}).
			FirstOrCreate(&stats).Error; err != nil {
			return fmt.Errorf("failed to load global stats: %s", err)
		}

		if user.Balance < cost {
			return apperr.New(apperr.FailedPrecondition, "Not enough food! Come back tomorrow.")
		}

		now := db.now()
		feedsToday := user.FeedsToday
		if user.LastFeedDate < startOfDayMillis(now) {
			feedsToday = 0
		}
		if feedsToday >= maxDailyFeeds {
			return apperr.New(apperr.ResourceExhausted,
				"Daily limit reached! You can feed %d cats per day. Come back tomorrow!", maxDailyFeeds)
		}

		nowMs := now.UnixMilli()
		user.Balance -= cost
		user.TotalFeeds++
		user.FeedsToday = feedsToday + 1
		user.LastFeedDate = nowMs

		cat.TotalFed++
		cat.LastFedAt = nowMs

		stats.TotalFeeds++

		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to save user: %s", err)
		}
		if err := tx.Save(&cat).Error; err != nil {
			return fmt.Errorf("failed to save cat: %s", err)
		}
		if err := tx.Save(&stats).Error; err != nil {
			return fmt.Errorf("failed to save global stats: %s", err)
		}

		event := models.FeedEvent{
			ID:        uuid.NewString(),
			UserID:    userID,
			CatID:     catID,
			Amount:    cost,
			Timestamp: nowMs,
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create feed event: %s", err)
		}

		outcome.User = &user
		outcome.Cat = &cat
		outcome.FeedsRemaining = maxDailyFeeds - user.FeedsToday
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (db *DB) AddCat(cat *models.Cat) error {
	if err := db.Conn.Create(cat).Error; err != nil {
		return fmt.Errorf("failed to create cat: %s", err)
	}
	return nil
}

func (db *DB) GetCat(catID string) (*models.Cat, error) {
	var cat models.Cat
	if err := db.Conn.Where("id = ?", catID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Cat not found")
		}
		return nil, fmt.Errorf("failed to get cat: %s", err)
	}
	return &cat, nil
}

func (db *DB) ListCats(limit int) ([]*models.Cat, error) {
	var cats []*models.Cat
	if err := db.Conn.Order("created_at DESC").Limit(limit).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list cats: %s", err)
	}
	return cats, nil
}

func (db *DB) CountCats() (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.Cat{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cats: %s", err)
	}
	return count, nil
}

func (db *DB) CountCatsFedSince(fedSince int64) (int64, error) {
	var count int64
	if err := db.Conn.Model(&models.Cat{}).
		Where("last_fed_at >= ?", fedSince).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count fed cats: %s", err)
	}
	return count, nil
}

func (db *DB) UpdateCatVibes(catID string, vibes []string) (*models.Cat, error) {
	var cat models.Cat
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := db.locked(tx).Where("id = ?", catID).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Cat not found")
			}
			return fmt.Errorf("failed to load cat: %s", err)
		}
		cat.Vibes = vibes
		if err := tx.Save(&cat).Error; err != nil {
			return fmt.Errorf("failed to save cat: %s", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (db *DB) SetCatAlertedAt(catID string, ts int64) error {
	if err := db.Conn.Model(&models.Cat{}).Where("id = ?", catID).
		Update("last_alert_at", ts).Error; err != nil {
		return fmt.Errorf("failed to set cat alert time: %s", err)
	}
	return nil
}

func (db *DB) ListHungryCats(fedBefore, alertedBefore int64) ([]*models.Cat, error) {
	var cats []*models.Cat
	if err := db.Conn.
		Where("last_fed_at < ? AND last_alert_at < ?", fedBefore, alertedBefore).
		Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list hungry cats: %s", err)
	}
	return cats, nil
}

func (db *DB) GetGlobalStats() (*models.GlobalStats, error) {
	var stats models.GlobalStats
	if err := db.Conn.Where(models.GlobalStats{ID: 1}).FirstOrCreate(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to get global stats: %s", err)
	}
	return &stats, nil
}

func (db *DB) CreatePurchase(p *models.Purchase) error {
	if err := db.Conn.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create purchase: %s", err)
	}
	return nil
}

func (db *DB) GetPurchase(sessionID string) (*models.Purchase, error) {
	var p models.Purchase
	if err := db.Conn.Where("session_id = ?", sessionID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Purchase not found")
		}
		return nil, fmt.Errorf("failed to get purchase: %s", err)
	}
	return &p, nil
}

func (db *DB) CompletePurchase(sessionID, paymentID string) (bool, error) {
	credited := false
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		var p models.Purchase
		if err := db.locked(tx).Where("session_id = ?", sessionID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Purchase not found")
			}
			return fmt.Errorf("failed to load purchase: %s", err)
		}

		// Redelivered events land here; acknowledge without crediting twice.
		if p.Status == models.PurchaseCompleted {
			return nil
		}

		var user models.User
		err := db.locked(tx).Where("id = ?", p.UserID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{ID: p.UserID, CreatedAt: db.nowMillis()}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %s", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load user: %s", err)
		}

		user.Balance += p.Cattv
		user.TotalPurchased += p.Cattv
		if err := tx.Save(&user).Error; err != nil {
			return fmt.Errorf("failed to save user: %s", err)
		}

		p.Status = models.PurchaseCompleted
		p.PaymentID = paymentID
		p.CompletedAt = db.nowMillis()
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to save purchase: %s", err)
		}

		credited = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return credited, nil
}

func (db *DB) RemoveStalePendingPurchases(createdBefore int64) error {
	if err := db.Conn.
		Where("created_at < ? AND status = ?", createdBefore, models.PurchasePending).
		Delete(&models.Purchase{}).Error; err != nil {
		return fmt.Errorf("failed to remove stale pending purchases: %s", err)
	}
	return nil
}

func (db *DB) AcquireLock(name, instanceID string, ttl time.Duration) (bool, error) {
	acquired := false
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		now := db.nowMillis()
		var lock models.AppLock
		err := db.locked(tx).Where("lock_name = ?", name).First(&lock).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			lock = models.AppLock{
				LockName:   name,
				InstanceID: instanceID,
				AcquiredAt: now,
				ExpiresAt:  now + ttl.Milliseconds(),
			}
			if err := tx.Create(&lock).Error; err != nil {
				return fmt.Errorf("failed to create lock: %s", err)
			}
			acquired = true
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to load lock: %s", err)
		}

		if lock.InstanceID != instanceID && lock.ExpiresAt > now {
			return nil
		}

		lock.InstanceID = instanceID
		lock.AcquiredAt = now
		lock.ExpiresAt = now + ttl.Milliseconds()
		if err := tx.Save(&lock).Error; err != nil {
			return fmt.Errorf("failed to save lock: %s", err)
		}
		acquired = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return acquired, nil
}

func (db *DB) ReleaseLock(name, instanceID string) error {
	if err := db.Conn.
		Where("lock_name = ? AND instance_id = ?", name, instanceID).
		Delete(&models.AppLock{}).Error; err != nil {
		return fmt.Errorf("failed to release lock: %s", err)
	}
	return nil
}
