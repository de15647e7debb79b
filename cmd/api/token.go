package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/stockpilot/pkg/jwt"
)

const (
	userFlag = "user"
	roleFlag = "role"
	ttlFlag  = "ttl-minutes"
)

func tokenFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		companyFlag: &cobraflags.StringFlag{
			Name:  companyFlag,
			Value: "",
			Usage: "ID de la empresa (requerido)",
		},
		userFlag: &cobraflags.StringFlag{
			Name:  userFlag,
			Value: "",
			Usage: "ID del operador; vacío = uno nuevo",
		},
		roleFlag: &cobraflags.StringFlag{
			Name:  roleFlag,
			Value: jwt.RoleAdmin,
			Usage: "Rol: admin | bodeguero | vendedor",
		},
		ttlFlag: &cobraflags.StringFlag{
			Name:  ttlFlag,
			Value: "",
			Usage: "Vigencia en minutos; vacío = JWT_EXPIRATION_MINUTES",
		},
	}
}

func newTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado para un operador",
	}
	flags := tokenFlags()
	tokenCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return tokenCommand(cmd, flags)
	}
	cobraflags.RegisterMap(tokenCmd, flags)
	return tokenCmd
}

func tokenCommand(cmd *cobra.Command, flags map[string]cobraflags.Flag) error {
	companyID := flags[companyFlag].GetString()
	if companyID == "" {
		return errors.New("--company es requerido")
	}
	role := flags[roleFlag].GetString()
	if !slices.Contains([]string{jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor}, role) {
		return fmt.Errorf("--role inválido: %s", role)
	}
	userID := flags[userFlag].GetString()
	if userID == "" {
		userID = uuid.NewString()
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	ttl := time.Duration(cfg.JWT.Expiration) * time.Minute
	if raw := flags[ttlFlag].GetString(); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("--ttl-minutes inválido: %s", raw)
		}
		ttl = time.Duration(minutes) * time.Minute
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, jwt.Identity{UserID: userID, CompanyID: companyID, Role: role}, cfg.JWT.Issuer, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
