package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "p2plending-backend/internal/adapter/http"
	"p2plending-backend/internal/adapter/middleware"
	"p2plending-backend/internal/adapter/repository/mysql"
	"p2plending-backend/internal/config"
	"p2plending-backend/internal/infrastructure/cache"
	"p2plending-backend/internal/infrastructure/db"
	contractuc "p2plending-backend/internal/usecase/contract"
	disputeuc "p2plending-backend/internal/usecase/dispute"
	lenderuc "p2plending-backend/internal/usecase/lender"
	loanuc "p2plending-backend/internal/usecase/loan"
	matchinguc "p2plending-backend/internal/usecase/matching"
	paymentuc "p2plending-backend/internal/usecase/payment"
	riskuc "p2plending-backend/internal/usecase/riskscore"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv("LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log.IsLevelEnabled(logrus.DebugLevel))
	if err != nil {
		log.WithError(err).Fatal("mysql connect failed")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect failed")
	}

	loans := mysql.NewLoanRepository(gdb)
	accounts := mysql.NewAccountRepository(gdb)
	contracts := mysql.NewContractRepository(gdb)
	profiles := mysql.NewRiskProfileRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// External collaborators are optional; without them the engines run on
	// their deterministic fallbacks.
	scorer := riskuc.NewUsecase(accounts, contracts, profiles, nil, log)
	loanUC := loanuc.NewUsecase(loans, scorer, log)
	lenderUC := lenderuc.NewUsecase(uow, log)
	matchingUC := matchinguc.NewUsecase(uow, cfg, log)
	contractUC := contractuc.NewUsecase(uow, nil, log)
	paymentUC := paymentuc.NewUsecase(uow, cfg, log)
	disputeUC := disputeuc.NewUsecase(uow, nil, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log))

	httpadp.RegisterRoutes(e,
		httpadp.NewHandler(),
		httpadp.NewLoanHandler(loanUC),
		httpadp.NewLenderHandler(lenderUC),
		httpadp.NewMatchingHandler(matchingUC),
		httpadp.NewContractHandler(contractUC),
		httpadp.NewPaymentHandler(paymentUC),
		httpadp.NewDisputeHandler(disputeUC),
	)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
