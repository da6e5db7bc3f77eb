package pack

import (
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/sellboost-agent/internal/models"
)

// Markdown renders a pack as a single document, one section per platform.
func Markdown(p models.SellingPack) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s — 全平台带货内容包\n", p.Product.Name)
	fmt.Fprintf(&b, "生成时间：%s\n\n", p.GeneratedAt.Format(time.RFC3339))

	if p.Product.Summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", p.Product.Summary)
	}
	b.WriteString("---\n\n")

	for _, pc := range p.Platforms {
		fmt.Fprintf(&b, "## %s\n\n", pc.PlatformName)
		for _, v := range pc.Variants {
			fmt.Fprintf(&b, "### 变体 %s（%s）\n", v.ID, v.ID.Label())
			fmt.Fprintf(&b, "**标题：** %s\n\n", v.Title)
			if v.Hook != "" {
				fmt.Fprintf(&b, "**开头：** %s\n\n", v.Hook)
			}
			b.WriteString(v.Body)
			b.WriteString("\n\n")
			if v.CTA != "" {
				fmt.Fprintf(&b, "**行动号召：** %s\n", v.CTA)
			}
			fmt.Fprintf(&b, "**标签：** %s\n", strings.Join(v.Tags, " "))
			fmt.Fprintf(&b, "**发布时间：** %s\n", v.PostingTime)
			fmt.Fprintf(&b, "**预估互动分：** %.0f\n\n", v.EngagementScore)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}
