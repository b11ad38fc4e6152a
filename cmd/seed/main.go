package main

import (
	"github.com/partnerdesk/partnerdesk/internal/config"
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin("admin", "Admin12345"); err != nil {
		stdLog.Printf("Failed to seed admin: %v", err)
	} else {
		stdLog.Printf("Seeded default admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Partner12345"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash partner password: %v", err)
	}

	// A introduces B, B introduces C. C's deals pay A at level 2.
	partners := []models.User{
		{
			Email:        "alice@example.co.uk",
			PasswordHash: string(hash),
			DisplayName:  "Alice Partner",
			ReferralCode: "ALICE123",
			PartnerLevel: 1,
			Status:       constants.UserStatusActive,
		},
		{
			Email:        "ben@example.co.uk",
			PasswordHash: string(hash),
			DisplayName:  "Ben Partner",
			ReferralCode: "BEN45678",
			PartnerLevel: 2,
			Status:       constants.UserStatusActive,
		},
		{
			Email:        "cara@example.co.uk",
			PasswordHash: string(hash),
			DisplayName:  "Cara Partner",
			ReferralCode: "CARA9876",
			PartnerLevel: 3,
			Status:       constants.UserStatusActive,
		},
	}

	ids := make([]uint, 0, len(partners))
	for i := range partners {
		p := &partners[i]
		if i > 0 {
			parentID := ids[i-1]
			p.ParentPartnerID = &parentID
		}
		var existing models.User
		if err := models.DB.Where("email = ?", p.Email).First(&existing).Error; err == nil {
			ids = append(ids, existing.ID)
			stdLog.Printf("Partner already exists: %s", p.Email)
			continue
		}
		if err := models.DB.Create(p).Error; err != nil {
			stdLog.Fatalf("Failed to create partner %s: %v", p.Email, err)
		}
		ids = append(ids, p.ID)
		stdLog.Printf("Created partner: %s", p.Email)
	}

	// Flattened ancestor rows for the chain.
	hierarchy := []models.PartnerHierarchy{
		{ChildID: ids[1], ParentID: ids[0], Level: 1},
		{ChildID: ids[2], ParentID: ids[1], Level: 1},
		{ChildID: ids[2], ParentID: ids[0], Level: 2},
	}
	for _, row := range hierarchy {
		var existing models.PartnerHierarchy
		if err := models.DB.Where("child_id = ? AND parent_id = ?", row.ChildID, row.ParentID).First(&existing).Error; err == nil {
			continue
		}
		if err := models.DB.Create(&row).Error; err != nil {
			stdLog.Printf("Failed to create hierarchy row: %v", err)
		}
	}

	deals := []models.Deal{
		{
			DealNo:                "DL-SEED01",
			ReferrerID:            ids[2],
			ParentReferrerID:      &ids[1],
			BusinessName:          "The Corner Cafe",
			BusinessType:          "hospitality",
			ContactName:           "Dan Owner",
			ContactEmail:          "dan@cornercafe.co.uk",
			Postcode:              "M1 2AB",
			DealStage:             constants.DealStageQuoteRequestReceived,
			CustomerJourneyStatus: constants.JourneyStatusReviewQuote,
			EstimatedCommission:   models.NewMoneyFromDecimal(decimal.NewFromInt(500)),
		},
		{
			DealNo:                "DL-SEED02",
			ReferrerID:            ids[2],
			ParentReferrerID:      &ids[1],
			BusinessName:          "Brightside Gym",
			BusinessType:          "leisure",
			ContactName:           "Erin Manager",
			ContactEmail:          "erin@brightsidegym.co.uk",
			Postcode:              "LS1 4CD",
			DealStage:             constants.DealStageLiveConfirmLTR,
			CustomerJourneyStatus: constants.JourneyStatusLive,
			EstimatedCommission:   models.NewMoneyFromDecimal(decimal.NewFromInt(1000)),
		},
	}
	for i := range deals {
		d := &deals[i]
		var existing models.Deal
		if err := models.DB.Where("deal_no = ?", d.DealNo).First(&existing).Error; err == nil {
			stdLog.Printf("Deal already exists: %s", d.DealNo)
			continue
		}
		if err := models.DB.Create(d).Error; err != nil {
			stdLog.Printf("Failed to create deal %s: %v", d.DealNo, err)
			continue
		}
		msg := models.DealMessage{
			DealID:     d.ID,
			AuthorType: constants.DealMessageAuthorSystem,
			Body:       "Quote request received",
		}
		if err := models.DB.Create(&msg).Error; err != nil {
			stdLog.Printf("Failed to create deal message: %v", err)
		}
		stdLog.Printf("Created deal: %s", d.DealNo)
	}

	stdLog.Printf("Seed complete")
}
