package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/alexbotov/raiaccept/internal/api"
	"github.com/alexbotov/raiaccept/pkg/raiaccept"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// soft-failed facade calls come back as nil
func printResult[T any](res *raiaccept.Result[T], err error) error {
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("request failed, see log for details")
	}
	return printJSON(res.Object)
}

func requireArgs(cctx *cli.Context, n int) error {
	if cctx.NArg() != n {
		_ = cli.ShowSubcommandHelp(cctx)
		return fmt.Errorf("expected %d argument(s), got %d", n, cctx.NArg())
	}
	return nil
}

var transliterateCmd = &cli.Command{
	Usage:     "Transliterate text to the Latin character set accepted by the gateway",
	Name:      "transliterate",
	ArgsUsage: "TEXT...",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "limit",
			Usage: "truncate to this many characters and strip shell metacharacters",
		},
	},
	Action: func(cctx *cli.Context) error {
		text := strings.Join(cctx.Args().Slice(), " ")
		if !cctx.IsSet("limit") {
			fmt.Println(raiaccept.Transliterate(text))
			return nil
		}
		out, ok := raiaccept.TransliterateAndLimitLength(text, cctx.Int("limit"))
		if !ok {
			return errors.New("nothing left after transliteration")
		}
		fmt.Println(out)
		return nil
	},
}

var phoneCmd = &cli.Command{
	Usage:     "Normalize a phone number",
	Name:      "phone",
	ArgsUsage: "NUMBER",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 1); err != nil {
			return err
		}
		fmt.Println(raiaccept.CleanPhoneNumber(cctx.Args().First()))
		return nil
	},
}

var countryCmd = &cli.Command{
	Usage:     "Convert an ISO 3166 alpha-2 country code to alpha-3",
	Name:      "country",
	ArgsUsage: "CODE",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 1); err != nil {
			return err
		}
		fmt.Println(raiaccept.GetCountryISO3(cctx.Args().First()))
		return nil
	},
}

var loginCmd = &cli.Command{
	Usage: "Log in with the configured credentials and print the access token",
	Name:  "login",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "inspect",
			Usage: "print the token claims instead of the token",
		},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}
		if !cctx.Bool("inspect") {
			fmt.Println(token)
			return nil
		}
		info, err := raiaccept.InspectToken(token)
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

var logoutCmd = &cli.Command{
	Usage:     "Revoke a refresh token",
	Name:      "logout",
	ArgsUsage: "REFRESH_TOKEN",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 1); err != nil {
			return err
		}
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		if !e.service.Client().TokenLogout(cctx.Context, cctx.Args().First()) {
			return errors.New("logout was not accepted")
		}
		return nil
	},
}

var orderCmd = &cli.Command{
	Usage: "Create an order and print the hosted payment page URL",
	Name:  "order",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "amount", Required: true},
		&cli.StringFlag{Name: "currency", Value: "EUR"},
		&cli.StringFlag{Name: "description"},
		&cli.StringFlag{
			Name:  "reference",
			Usage: "merchant order reference (default: a new UUID)",
		},
		&cli.StringFlag{Name: "email"},
		&cli.StringFlag{Name: "first-name"},
		&cli.StringFlag{Name: "last-name"},
		&cli.StringFlag{Name: "phone"},
		&cli.StringFlag{Name: "country", Usage: "alpha-2 billing country"},
		&cli.StringFlag{Name: "success-url", Required: true},
		&cli.StringFlag{Name: "fail-url", Required: true},
		&cli.StringFlag{Name: "cancel-url", Required: true},
		&cli.StringFlag{Name: "notification-url"},
		&cli.StringFlag{Name: "payment-method", Value: "CARD"},
	},
	Action: func(cctx *cli.Context) error {
		amount, err := decimal.NewFromString(cctx.String("amount"))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		reference := cctx.String("reference")
		if reference == "" {
			reference = uuid.New().String()
		}

		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		order := newOrder(cctx, amount, reference)
		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}

		created, err := e.service.CreateOrderEntry(cctx.Context, token, order)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if created.Object == nil {
			return errors.New("gateway returned an empty order")
		}

		session, err := e.service.CreatePaymentSession(cctx.Context, token, order, created.Object.OrderIdentification)
		if err != nil {
			return fmt.Errorf("failed to create payment session: %w", err)
		}
		return printJSON(map[string]any{
			"orderIdentification":    created.Object.OrderIdentification,
			"merchantOrderReference": reference,
			"payment":                session.Object,
		})
	},
}

func newOrder(cctx *cli.Context, amount decimal.Decimal, reference string) *raiaccept.CreateOrderEntryRequest {
	first := raiaccept.Transliterate(cctx.String("first-name"))
	last := raiaccept.Transliterate(cctx.String("last-name"))
	description, ok := raiaccept.TransliterateAndLimitLength(cctx.String("description"), 0)
	if !ok {
		description = reference
	}

	order := &raiaccept.CreateOrderEntryRequest{
		Consumer: &raiaccept.Consumer{
			Email:       cctx.String("email"),
			FirstName:   first,
			LastName:    last,
			MobilePhone: raiaccept.CleanPhoneNumber(cctx.String("phone")),
		},
		Invoice: &raiaccept.Invoice{
			Amount:                 amount,
			Currency:               strings.ToUpper(cctx.String("currency")),
			Description:            description,
			MerchantOrderReference: reference,
		},
		PaymentMethodPreference: cctx.String("payment-method"),
		Urls: &raiaccept.Urls{
			SuccessURL:      cctx.String("success-url"),
			FailURL:         cctx.String("fail-url"),
			CancelURL:       cctx.String("cancel-url"),
			NotificationURL: cctx.String("notification-url"),
		},
	}
	if country := cctx.String("country"); country != "" {
		order.BillingAddress = &raiaccept.Address{
			Country:   raiaccept.GetCountryISO3(strings.ToUpper(country)),
			FirstName: first,
			LastName:  last,
		}
	}
	return order
}

var orderDetailsCmd = &cli.Command{
	Usage:     "Show the details of an order",
	Name:      "order-details",
	ArgsUsage: "ORDER_ID",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 1); err != nil {
			return err
		}
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}
		return printResult(e.service.GetOrderDetails(cctx.Context, token, cctx.Args().First()))
	},
}

var transactionsCmd = &cli.Command{
	Usage:     "List the transactions of an order",
	Name:      "transactions",
	ArgsUsage: "ORDER_ID",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 1); err != nil {
			return err
		}
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}
		return printResult(e.service.GetOrderTransactions(cctx.Context, token, cctx.Args().First()))
	},
}

var transactionCmd = &cli.Command{
	Usage:     "Show a single transaction",
	Name:      "transaction",
	ArgsUsage: "ORDER_ID TRANSACTION_ID",
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 2); err != nil {
			return err
		}
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}
		return printResult(e.service.GetTransactionDetails(cctx.Context, token, cctx.Args().Get(0), cctx.Args().Get(1)))
	},
}

var refundCmd = &cli.Command{
	Usage:     "Refund a transaction",
	Name:      "refund",
	ArgsUsage: "ORDER_ID TRANSACTION_ID",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "amount", Required: true},
		&cli.StringFlag{Name: "currency", Value: "EUR"},
	},
	Action: func(cctx *cli.Context) error {
		if err := requireArgs(cctx, 2); err != nil {
			return err
		}
		amount, err := decimal.NewFromString(cctx.String("amount"))
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		token, err := e.accessToken(cctx.Context)
		if err != nil {
			return err
		}
		refund := &raiaccept.RefundRequest{Amount: amount, Currency: strings.ToUpper(cctx.String("currency"))}
		return printResult(e.service.Refund(cctx.Context, token, cctx.Args().Get(0), cctx.Args().Get(1), refund))
	},
}

var serveWebhookCmd = &cli.Command{
	Usage: "Serve the payment notification webhook",
	Name:  "serve-webhook",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "confirm",
			Usage: "confirm paid notifications against the gateway",
			Value: true,
		},
	},
	Action: func(cctx *cli.Context) error {
		e, err := setup(cctx)
		if err != nil {
			return err
		}
		defer e.log.Sync() //nolint:errcheck

		confirm := cctx.Bool("confirm") && e.cfg.Gateway.Username != ""
		notifier := api.NewNotifier(e.log.Named("notifications"), nil, nil)
		if confirm {
			notifier = api.NewNotifier(e.log.Named("notifications"), e.service, e.accessToken)
		}

		handler := api.New(e.log, notifier.Callbacks())
		srv := &http.Server{
			Addr:         ":" + e.cfg.Server.Port,
			Handler:      handler.SetupRouter(e.cfg.Server.WebhookPath),
			ReadTimeout:  e.cfg.Server.ReadTimeout,
			WriteTimeout: e.cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			e.log.Info("webhook server starting",
				zap.String("addr", srv.Addr),
				zap.String("path", e.cfg.Server.WebhookPath),
				zap.Bool("confirm", confirm),
			)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-cctx.Context.Done():
		}

		e.log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
