package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mintalist/mintalist-backend/internal/vendors"
	"github.com/mintalist/mintalist-backend/internal/vouchers"
	"github.com/mintalist/mintalist-backend/pkg/config"
	"github.com/mintalist/mintalist-backend/pkg/db"
	"github.com/mintalist/mintalist-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "voucher"})

	_ = godotenv.Load()

	code := flag.String("code", "", "voucher code (A-Z, 0-9, - or _)")
	tierFlag := flag.String("tier", "", "tier granted on redemption: PAID_1|PAID_2")
	days := flag.Int("expires-in-days", 0, "optional lifetime in days (1-3650)")
	flag.Parse()

	if *code == "" || *tierFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: voucher -code CODE -tier PAID_1|PAID_2 [-expires-in-days N]")
		os.Exit(2)
	}

	tier, err := vouchers.ParseTier(*tierFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -tier: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "voucher",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      logger.FormatConsole,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := vouchers.NewService(vouchers.ServiceParams{
		Repo:    vouchers.NewRepository(dbClient.DB()),
		Vendors: vendors.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Logger:  logg,
	})
	requireResource(ctx, logg, "voucher service", err)

	input := vouchers.CreateInput{Code: *code, Tier: tier}
	if *days > 0 {
		input.ExpiresInDays = days
	}

	created, err := svc.Create(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create voucher failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(created, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode voucher: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
