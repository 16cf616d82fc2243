package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cozyminds/internal/catalog"
	"cozyminds/internal/config"
	"cozyminds/internal/metrics"
	"cozyminds/internal/models/request_models"
	"cozyminds/internal/repositories"
	"cozyminds/internal/services"
	"cozyminds/pkg/utils"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Send one mail to every account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		sender, _ := cmd.Flags().GetString("sender")
		if title == "" || content == "" {
			return errors.New("--title and --content are required")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		mail := services.NewMailService(
			services.DefaultMailConfig(),
			repositories.NewMailRepository(env.db),
			services.NewCalendar(env.cfg.Location),
			metrics.New(),
			env.logger,
		)
		res, err := mail.Broadcast(context.Background(), request_models.BroadcastMailRequest{
			Sender:  sender,
			Title:   title,
			Content: content,
		})
		if errors.Is(err, utils.ErrNoRecipients) {
			return errors.New("there are no accounts to send to")
		}
		if err != nil {
			return fmt.Errorf("broadcast: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "mail %s delivered to %d accounts\n", res.MailID, res.Recipients)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Give an account the admin role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			return errors.New("--email is required")
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.close()

		m := metrics.New()
		calendar := services.NewCalendar(env.cfg.Location)
		accounts := services.NewAccountService(
			repositories.NewAccountRepository(env.db),
			nil,
			utils.NewPasswordHasher(env.cfg.Argon2),
			utils.NewTokenIssuer(env.cfg.JWTSecret, env.cfg.JWTTTL),
			nil,
			calendar,
			m,
			env.logger,
		)
		if err := accounts.PromoteToAdmin(context.Background(), email); err != nil {
			if errors.Is(err, utils.ErrAccountNotFound) {
				return fmt.Errorf("no account with email %s", email)
			}
			return fmt.Errorf("promote: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now an admin\n", email)
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and print the shop catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath
		if path == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			path = cfg.ShopCatalogPath
		}

		cat, err := catalog.Load(path)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tPRICE\tNAME")
		for _, item := range cat.Items() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.ID, item.Category, item.Price, item.Name)
		}
		return w.Flush()
	},
}

func init() {
	broadcastCmd.Flags().String("title", "", "Mail title")
	broadcastCmd.Flags().String("content", "", "Mail body")
	broadcastCmd.Flags().String("sender", "", "Sender shown in the mailbox (default: Cozy Minds)")
	promoteCmd.Flags().String("email", "", "Email of the account to promote")
}
