package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Rakhulsr/go-fooddelivery/app/configs"
	"github.com/Rakhulsr/go-fooddelivery/app/models"
	"github.com/Rakhulsr/go-fooddelivery/app/models/migrations"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/calc"
	"github.com/Rakhulsr/go-fooddelivery/app/utils/format"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
)

func NewCli(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "fooddelivery",
		Usage:  "food delivery checkout service",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create or update the checkout session tables",
				Action: func(ctx context.Context, c *cli.Command) error {
					env, err := configs.LoadEnv()
					if err != nil {
						return err
					}
					configs.SetupLogger(env, os.Stderr)
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Info().Str("driver", env.DBDriver).Msg("migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session and CSRF keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "also write the keys to this file"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateSessionKeys(c.Root().Writer, c.String("out"))
				},
			},
			{
				Name:  "quote",
				Usage: "Print the payable amount for the given order figures",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subtotal", Value: "0"},
					&cli.StringFlag{Name: "tax", Value: "0"},
					&cli.StringFlag{Name: "promo", Usage: "promo discount, omitted when no promo is active"},
					&cli.StringFlag{Name: "tip", Value: "0"},
					&cli.StringFlag{Name: "delivery-charge", Value: "0"},
					&cli.BoolFlag{Name: "free-delivery"},
					&cli.StringFlag{Name: "mode", Value: string(models.DeliveryModeDelivery), Usage: "Delivery or Self-Pickup"},
					&cli.StringFlag{Name: "currency", Value: "$"},
				},
				Action: quote,
			},
		},
	}
}

func decimalFlag(c *cli.Command, name string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(c.String(name))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s: %w", name, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("--%s cannot be negative", name)
	}
	return value, nil
}

func quote(ctx context.Context, c *cli.Command) error {
	mode, err := models.ParseDeliveryMode(c.String("mode"))
	if err != nil {
		return err
	}
	in := calc.PricingInput{DeliveryMode: mode, IsFreeDelivery: c.Bool("free-delivery"), PromoDiscount: decimal.Zero}
	for name, dst := range map[string]*decimal.Decimal{
		"subtotal":        &in.SubTotal,
		"tax":             &in.TaxAmount,
		"tip":             &in.Tip,
		"delivery-charge": &in.DeliveryCharge,
	} {
		if *dst, err = decimalFlag(c, name); err != nil {
			return err
		}
	}
	if c.IsSet("promo") {
		in.PromoActive = true
		if in.PromoDiscount, err = decimalFlag(c, "promo"); err != nil {
			return err
		}
	}

	payable := calc.CalculatePayable(in)
	money := format.NewMoneyFormatter(c.String("currency"))
	_, err = fmt.Fprintf(c.Root().Writer, "payable: %s\ntotal payable: %s\n", payable.StringFixed(2), money.Format(calc.TotalPayable(payable)))
	return err
}

func RunCli(ctx context.Context, args []string, out io.Writer) error {
	return NewCli(out).Run(ctx, args)
}
