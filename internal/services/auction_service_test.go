package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Arrties/backend/internal/models"
	"github.com/Arrties/backend/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Member{},
		&models.Auction{},
		&models.ArtWork{},
		&models.ArtWorkImage{},
		&models.Bidding{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	// Same index the production migration creates.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_auctions_single_processing ON auctions (status) WHERE status = 'PROCESSING'`).Error
	if err != nil {
		t.Fatalf("failed to create single-processing index: %v", err)
	}

	// The shared in-memory DB survives across tests; start each one clean.
	for _, table := range []string{"notifications", "biddings", "art_work_images", "art_works", "auctions", "members"} {
		db.Exec("DELETE FROM " + table)
	}

	return db
}

func newTestAuctionService(t *testing.T) (*AuctionService, *gorm.DB) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	return NewAuctionService(repo, NewNotificationService(db)), db
}

func TestRegisterAuction(t *testing.T) {
	service, _ := newTestAuctionService(t)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	auction, err := service.RegisterAuction(ctx, 1, start, end)
	if err != nil {
		t.Fatalf("RegisterAuction failed: %v", err)
	}
	if auction.Status != models.AuctionStatusScheduled {
		t.Errorf("expected status SCHEDULED, got %s", auction.Status)
	}

	found, err := service.GetAuctionByTurn(ctx, 1)
	if err != nil {
		t.Fatalf("GetAuctionByTurn failed: %v", err)
	}
	if found.Turn != 1 {
		t.Errorf("expected turn 1, got %d", found.Turn)
	}
	if !found.StartDate.Equal(start) || !found.EndDate.Equal(end) {
		t.Errorf("expected dates %v/%v, got %v/%v", start, end, found.StartDate, found.EndDate)
	}
	if found.Status != models.AuctionStatusScheduled {
		t.Errorf("expected status SCHEDULED, got %s", found.Status)
	}
}

func TestRegisterAuctionDuplicateTurn(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	start := time.Now()
	if _, err := service.RegisterAuction(ctx, 7, start, start.Add(time.Hour)); err != nil {
		t.Fatalf("first RegisterAuction failed: %v", err)
	}

	_, err := service.RegisterAuction(ctx, 7, start.Add(time.Hour), start.Add(2*time.Hour))
	if !errors.Is(err, ErrDuplicateTurn) {
		t.Fatalf("expected ErrDuplicateTurn, got %v", err)
	}

	// The failed call must not leave a partial write behind.
	var count int64
	db.Model(&models.Auction{}).Where("turn = ?", 7).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 auction for turn 7, got %d", count)
	}
}

func TestStartAuctionUnknownTurn(t *testing.T) {
	service, _ := newTestAuctionService(t)

	err := service.StartAuction(context.Background(), 99)
	if !errors.Is(err, ErrTurnNotFound) {
		t.Fatalf("expected ErrTurnNotFound, got %v", err)
	}
}

func TestStartAuctionTransitionsArtWorks(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	auction := mustRegister(t, service, 1)
	a := seedArtWork(t, db, auction.ID, 10)
	b := seedArtWork(t, db, auction.ID, 10)

	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}

	started, _ := service.GetAuctionByTurn(ctx, 1)
	if started.Status != models.AuctionStatusProcessing {
		t.Errorf("expected auction PROCESSING, got %s", started.Status)
	}

	for _, id := range []uint{a.ID, b.ID} {
		var artWork models.ArtWork
		db.First(&artWork, id)
		if artWork.Status != models.ArtWorkStatusProcessing {
			t.Errorf("expected art work %d PROCESSING, got %s", id, artWork.Status)
		}
	}
}

func TestStartAuctionTwiceFails(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	auction := mustRegister(t, service, 1)
	artWork := seedArtWork(t, db, auction.ID, 10)

	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("first StartAuction failed: %v", err)
	}

	err := service.StartAuction(ctx, 1)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// First call's effects stay intact.
	var check models.ArtWork
	db.First(&check, artWork.ID)
	if check.Status != models.ArtWorkStatusProcessing {
		t.Errorf("expected art work still PROCESSING, got %s", check.Status)
	}
}

func TestStartAuctionWhileAnotherProcessing(t *testing.T) {
	service, _ := newTestAuctionService(t)
	ctx := context.Background()

	mustRegister(t, service, 1)
	mustRegister(t, service, 2)

	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("StartAuction(1) failed: %v", err)
	}

	err := service.StartAuction(ctx, 2)
	if !errors.Is(err, ErrAuctionInProgress) {
		t.Fatalf("expected ErrAuctionInProgress, got %v", err)
	}

	// At most one auction is ever PROCESSING.
	current, err := service.CurrentAuction(ctx)
	if err != nil {
		t.Fatalf("CurrentAuction failed: %v", err)
	}
	if current == nil || current.Turn != 1 {
		t.Errorf("expected turn 1 processing, got %+v", current)
	}
}

func TestSingleProcessingAuctionEnforcedByStore(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	mustRegister(t, service, 1)
	second := mustRegister(t, service, 2)

	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}

	// A writer that slips past the service guard still cannot commit a
	// second PROCESSING row: the index rejects it.
	res := db.Model(&models.Auction{}).
		Where("id = ?", second.ID).
		Update("status", models.AuctionStatusProcessing)
	if !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", res.Error)
	}

	var count int64
	db.Model(&models.Auction{}).
		Where("status = ?", models.AuctionStatusProcessing).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 processing auction, got %d", count)
	}

	// The loser surfaces as ErrAuctionInProgress through the service.
	if err := service.StartAuction(ctx, 2); !errors.Is(err, ErrAuctionInProgress) {
		t.Fatalf("expected ErrAuctionInProgress, got %v", err)
	}
}

func TestTerminateAuctionSettlesArtWorks(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	artist := seedMember(t, db, "artist1", models.MemberRoleArtist)
	collector := seedMember(t, db, "collector1", models.MemberRoleUser)

	auction := mustRegister(t, service, 1)
	a := seedArtWork(t, db, auction.ID, artist.ID)
	b := seedArtWork(t, db, auction.ID, artist.ID)

	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}

	// Bid exists for A only.
	bid := models.Bidding{ArtWorkID: a.ID, MemberID: collector.ID, Price: decimal.NewFromInt(500)}
	if err := db.Create(&bid).Error; err != nil {
		t.Fatalf("failed to seed bid: %v", err)
	}

	if err := service.TerminateAuction(ctx, 1); err != nil {
		t.Fatalf("TerminateAuction failed: %v", err)
	}

	terminated, _ := service.GetAuctionByTurn(ctx, 1)
	if terminated.Status != models.AuctionStatusTerminated {
		t.Errorf("expected auction TERMINATED, got %s", terminated.Status)
	}

	var sold models.ArtWork
	db.First(&sold, a.ID)
	if sold.Status != models.ArtWorkStatusSold {
		t.Errorf("expected art work A SOLD, got %s", sold.Status)
	}
	if sold.WinningBidID == nil || *sold.WinningBidID != bid.ID {
		t.Errorf("expected winning bid %d recorded, got %v", bid.ID, sold.WinningBidID)
	}

	var unsold models.ArtWork
	db.First(&unsold, b.ID)
	if unsold.Status != models.ArtWorkStatusUnsold {
		t.Errorf("expected art work B UNSOLD, got %s", unsold.Status)
	}
	if unsold.WinningBidID != nil {
		t.Errorf("expected no winning bid for B, got %v", *unsold.WinningBidID)
	}

	// Settlement outcomes reach the artist as notifications.
	var notifications int64
	db.Model(&models.Notification{}).Where("member_id = ?", artist.ID).Count(&notifications)
	if notifications != 2 {
		t.Errorf("expected 2 settlement notifications, got %d", notifications)
	}
}

func TestTerminateAuctionInvalidStates(t *testing.T) {
	service, db := newTestAuctionService(t)
	ctx := context.Background()

	err := service.TerminateAuction(ctx, 99)
	if !errors.Is(err, ErrTurnNotFound) {
		t.Fatalf("expected ErrTurnNotFound, got %v", err)
	}

	auction := mustRegister(t, service, 1)
	artWork := seedArtWork(t, db, auction.ID, 10)

	// Terminating a SCHEDULED auction is not a legal transition.
	err = service.TerminateAuction(ctx, 1)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	var check models.ArtWork
	db.First(&check, artWork.ID)
	if check.Status != models.ArtWorkStatusPending {
		t.Errorf("expected art work untouched (PENDING), got %s", check.Status)
	}

	// TERMINATED is terminal.
	if err := service.StartAuction(ctx, 1); err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}
	if err := service.TerminateAuction(ctx, 1); err != nil {
		t.Fatalf("TerminateAuction failed: %v", err)
	}
	err = service.TerminateAuction(ctx, 1)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on re-terminate, got %v", err)
	}
	err = service.StartAuction(ctx, 1)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on restart, got %v", err)
	}
}

func TestListAuctions(t *testing.T) {
	service, _ := newTestAuctionService(t)
	ctx := context.Background()

	mustRegister(t, service, 3)
	mustRegister(t, service, 1)
	mustRegister(t, service, 2)

	// No auction processing: scheduled only, turn ascending, no empty slot.
	items, err := service.ListAuctions(ctx)
	if err != nil {
		t.Fatalf("ListAuctions failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, turn := range []int{1, 2, 3} {
		if items[i].Turn != turn {
			t.Errorf("item %d: expected turn %d, got %d", i, turn, items[i].Turn)
		}
	}

	// With a processing auction it comes first, then scheduled by turn.
	if err := service.StartAuction(ctx, 2); err != nil {
		t.Fatalf("StartAuction failed: %v", err)
	}

	items, err = service.ListAuctions(ctx)
	if err != nil {
		t.Fatalf("ListAuctions failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Turn != 2 || items[0].Status != models.AuctionStatusProcessing {
		t.Errorf("expected processing turn 2 first, got turn %d (%s)", items[0].Turn, items[0].Status)
	}
	if items[1].Turn != 1 || items[2].Turn != 3 {
		t.Errorf("expected scheduled turns [1 3], got [%d %d]", items[1].Turn, items[2].Turn)
	}
}

func mustRegister(t *testing.T, service *AuctionService, turn int) *models.Auction {
	t.Helper()
	start := time.Now().Add(time.Hour)
	auction, err := service.RegisterAuction(context.Background(), turn, start, start.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("RegisterAuction(%d) failed: %v", turn, err)
	}
	return auction
}

func seedMember(t *testing.T, db *gorm.DB, loginID string, role models.MemberRole) *models.Member {
	t.Helper()
	member := &models.Member{
		Username: loginID,
		LoginID:  loginID,
		Email:    loginID + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to seed member: %v", err)
	}
	return member
}

func seedArtWork(t *testing.T, db *gorm.DB, auctionID uint, artistID uint) *models.ArtWork {
	t.Helper()
	artWork := &models.ArtWork{
		ArtistID:  artistID,
		AuctionID: &auctionID,
		Title:     "Untitled",
		Status:    models.ArtWorkStatusPending,
	}
	if err := db.Create(artWork).Error; err != nil {
		t.Fatalf("failed to seed art work: %v", err)
	}
	return artWork
}
