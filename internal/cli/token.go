package cli

import (
	"errors"
	"fmt"

	"github.com/mx-space/feedguard/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the settings and probe endpoints",
		Run:   runToken,
	}

	cmd.Flags().StringP("subject", "s", "admin", "Token subject")
	cmd.Flags().Duration("ttl", jwt.DefaultTTL, "Token lifetime")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) {
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	if cfg.JWTSecret == "" {
		exitErr("sign", errors.New("jwt_secret is not configured"))
	}
	signer, err := jwt.NewSigner(cfg.JWTSecret)
	if err != nil {
		exitErr("sign", err)
	}
	token, err := signer.Sign(subject, jwt.RoleAdmin, ttl)
	if err != nil {
		exitErr("sign", err)
	}
	fmt.Println(token)
}
