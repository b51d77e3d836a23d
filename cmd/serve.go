package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/binduai/bindu-go/pkg/auth"
	"github.com/binduai/bindu-go/pkg/service"
)

var (
	servePortFlag       int
	serveHostFlag       string
	serveSigningKeyFlag string
	servePaymentFlag    bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run a local development agent",
		Long:  longServe,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tokens *auth.TokenService
			if serveSigningKeyFlag != "" {
				tokens = auth.NewTokenService([]byte(serveSigningKeyFlag))

				// Print a ready-made token so the client side can be
				// configured in one copy-paste.
				token, err := tokens.Mint("dev", 24*time.Hour)
				if err != nil {
					return err
				}
				log.Info("dev bearer token minted", "token", token)
			}

			srv := service.NewAgentServer(tokens)
			srv.RequirePayment = servePaymentFlag

			return srv.Listen(fmt.Sprintf("%s:%d", serveHostFlag, servePortFlag))
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 3210, "Port to serve on")
	serveCmd.Flags().StringVarP(&serveHostFlag, "host", "H", "0.0.0.0", "Host address to bind to")
	serveCmd.Flags().StringVar(&serveSigningKeyFlag, "signing-key", "", "Require bearer tokens signed with this key")
	serveCmd.Flags().BoolVar(&servePaymentFlag, "require-payment", false, "Demand an X-Payment header on submissions")
}

var longServe = `
Run a local echo agent speaking the task RPC protocol.  Useful for
developing and testing clients without a real agent: it reports working
once, then completes with the submitted text echoed back as an artifact.
`
