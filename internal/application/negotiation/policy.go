package negotiation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
)

// Policy decides whether a product needs the full sensitive-brand approval
// round. The base signal is the per-brand flag in the directory; operators
// may override it with a rule expression evaluated against the product
// (parameters: brand_id, code, price).
type Policy struct {
	directory catalog.Directory
	rule      *govaluate.EvaluableExpression
	logger    zerolog.Logger
}

func NewPolicy(directory catalog.Directory, ruleExpr string, logger zerolog.Logger) (*Policy, error) {
	p := &Policy{
		directory: directory,
		logger:    logger.With().Str("service", "brand-policy").Logger(),
	}
	if expr := strings.TrimSpace(ruleExpr); expr != "" {
		compiled, err := govaluate.NewEvaluableExpression(expr)
		if err != nil {
			return nil, fmt.Errorf("sensitive brand rule: %w", err)
		}
		p.rule = compiled
	}
	return p, nil
}

// Sensitive reports whether the product must go to the primary approver
// group. Rule evaluation failures fall back to the directory flag.
func (p *Policy) Sensitive(ctx context.Context, product *catalog.Product) (bool, error) {
	if p.rule != nil {
		result, err := p.rule.Evaluate(map[string]interface{}{
			"brand_id": float64(product.BrandID),
			"code":     float64(product.Code),
			"price":    product.Price,
		})
		if err != nil {
			p.logger.Warn().Err(err).Int64("code", product.Code).Msg("sensitive brand rule evaluation failed")
		} else if b, ok := result.(bool); ok {
			return b, nil
		} else {
			p.logger.Warn().Int64("code", product.Code).Msg("sensitive brand rule did not evaluate to a boolean")
		}
	}
	if product.BrandID == 0 {
		return false, nil
	}
	return p.directory.IsSensitiveBrand(ctx, product.BrandID)
}
