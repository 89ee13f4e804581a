package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/config"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/controller"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/dao"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/logic"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/models"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/pkg"
	"github.com/SamKenX-Hub-Community/SamKenX-epoch-fighters-back/pkg/chainfeed"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if len(os.Args) < 2 {
		log.Fatal("Usage: epoch-fighters-back <config.yaml>")
	}
	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", os.Args[1], err)
	}

	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
		log.SetLevel(logrus.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Hero{}, &models.DepositEvent{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize artifact signer
	signer, err := pkg.NewHeroSigner(cfg.Signer.Seed, cfg.ArtifactTTL())
	if err != nil {
		log.Fatalf("Failed to initialize signer: %v", err)
	}
	log.WithField("signer_key", signer.PublicKey()).Info("artifact signer ready")

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	heroDAO := dao.NewHeroDAO(db)
	depositDAO := dao.NewDepositEventDAO(db)

	// Initialize Logics
	userLogic := logic.NewUserLogic(userDAO, cfg.Auth.Secret, cfg.TokenTTL())
	nftLogic := logic.NewNftLogic(userDAO, heroDAO, signer, cfg.SignTimeout())

	// Initialize Controllers
	userCtrl := controller.NewUserController(userLogic)
	nftCtrl := controller.NewNftController(nftLogic)

	// Start the chain feed listener in a goroutine
	if cfg.Chain.WSURL != "" {
		feed := chainfeed.NewClient(cfg.Chain.WSURL, nil)
		depositLogic := logic.NewDepositLogic(db, userDAO, heroDAO, depositDAO, feed)
		go func() {
			if err := depositLogic.Run(context.Background()); err != nil {
				log.WithError(err).Error("chain feed stopped")
			}
		}()
	}

	// Setup router and run server
	r := controller.NewRouter(log, userDAO, userCtrl, nftCtrl)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.WithField("addr", addr).Info("listening")
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
