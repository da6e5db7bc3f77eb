package main

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
	"github.com/BerylCAtieno/sellboost-agent/internal/pack"
)

// newRootCmd builds the command tree. Flags are bound to viper so every
// setting can also come from PACKCTL_* environment variables.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("packctl")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "packctl",
		Short:         "Client for the SellBoost selling-pack server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("url", "http://localhost:8080", "base URL of the server")
	root.PersistentFlags().Duration("timeout", 2*time.Minute, "request timeout")
	_ = v.BindPFlag("url", root.PersistentFlags().Lookup("url"))
	_ = v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	client := func() *Client {
		return NewClient(v.GetString("url"), v.GetDuration("timeout"))
	}

	root.AddCommand(
		newHealthCmd(client),
		newAgentCardCmd(client),
		newAnalyzeCmd(client),
		newGenerateCmd(client),
		newHistoryCmd(client),
	)
	return root
}

func newHealthCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := client().do(cmd.Context(), http.MethodGet, "/health", nil)
			if err != nil {
				return err
			}
			if strings.TrimSpace(string(body)) != "OK" {
				return fmt.Errorf("unexpected health body %q", body)
			}
			printSuccess("Health check passed")
			return nil
		},
	}
}

func newAgentCardCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "agent-card",
		Short: "Fetch and check the A2A agent card",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var card map[string]any
			if err := client().call(cmd.Context(), http.MethodGet, "/.well-known/agent.json", nil, &card); err != nil {
				return err
			}
			for _, field := range []string{"name", "description", "version", "capabilities", "endpoints"} {
				if _, ok := card[field]; !ok {
					return fmt.Errorf("agent card missing field %q", field)
				}
			}
			printSuccess("Agent card is valid")
			printJSON(card)
			return nil
		},
	}
}

func newAnalyzeCmd(client func() *Client) *cobra.Command {
	var text, link string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a product description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var product models.AnalyzedProduct
			body := map[string]string{"text": text, "url": link}
			if err := client().call(cmd.Context(), http.MethodPost, "/api/analyze-product", body, &product); err != nil {
				return err
			}
			printHeader(product.Name)
			printJSON(product)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "product or service description")
	cmd.Flags().StringVar(&link, "link", "", "optional product page URL")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newGenerateCmd(client func() *Client) *cobra.Command {
	var (
		text, link, mode, goal, focus string
		platformIDs                   []string
		markdown                      bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Analyze a product and generate its selling pack",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := map[string]any{
				"text":           text,
				"url":            link,
				"platforms":      platformIDs,
				"publishMode":    mode,
				"conversionGoal": goal,
				"focusAngle":     focus,
			}
			var item models.GenerateHistoryItem
			if err := client().call(cmd.Context(), http.MethodPost, "/api/generate", req, &item); err != nil {
				return err
			}
			if markdown {
				fmt.Print(pack.Markdown(item.Pack))
				return nil
			}
			printSuccess(fmt.Sprintf("Generated %d platform(s), history id %s", len(item.Pack.Platforms), item.ID))
			printJSON(item.Pack)
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "product or service description")
	cmd.Flags().StringVar(&link, "link", "", "optional product page URL")
	cmd.Flags().StringSliceVarP(&platformIDs, "platforms", "p", nil, "platform ids (default xiaohongshu,douyin)")
	cmd.Flags().StringVar(&mode, "mode", string(models.PublishImageText), "publish mode: image_text, spoken, review")
	cmd.Flags().StringVar(&goal, "goal", string(models.GoalAwareness), "conversion goal: awareness, engagement, leads, sales")
	cmd.Flags().StringVar(&focus, "focus", "", "optional focus angle")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the pack as markdown")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newHistoryCmd(client func() *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show or delete past generations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List past generations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []models.GenerateHistoryItem
			if err := client().call(cmd.Context(), http.MethodGet, "/api/history", nil, &items); err != nil {
				return err
			}
			writeHistoryTable(cmd, items)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var item models.GenerateHistoryItem
			if err := client().call(cmd.Context(), http.MethodGet, "/api/history/"+args[0], nil, &item); err != nil {
				return err
			}
			fmt.Print(pack.Markdown(item.Pack))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client().do(cmd.Context(), http.MethodDelete, "/api/history/"+args[0], nil); err != nil {
				return err
			}
			printSuccess("Deleted " + args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func writeHistoryTable(cmd *cobra.Command, items []models.GenerateHistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPRODUCT\tPLATFORMS")
	for _, item := range items {
		ids := make([]string, len(item.Platforms))
		for i, p := range item.Platforms {
			ids[i] = string(p)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			item.ID,
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			item.Pack.Product.Name,
			strings.Join(ids, ","),
		)
	}
	w.Flush()
}
