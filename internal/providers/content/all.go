package content

import (
	"context"

	"golang.org/x/sync/errgroup"

	"brandkit/internal/domain"
)

// PlatformResult is one platform's template from GenerateAll.
type PlatformResult struct {
	Platform domain.Platform
	Template *Template
	// Err is set when the generator failed and Template is the fallback.
	Err error
}

// GenerateAll writes a template for every platform concurrently. A platform
// whose generation fails gets FallbackTemplate instead, so the result always
// has one entry per platform in domain.Platforms order.
func GenerateAll(ctx context.Context, gen Generator, topic string, profile *domain.Profile, locale string) ([]PlatformResult, error) {
	results := make([]PlatformResult, len(domain.Platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range domain.Platforms {
		i, platform := i, platform
		g.Go(func() error {
			tpl, err := gen.Template(gctx, TemplateRequest{Topic: topic, Platform: platform, Profile: profile, Locale: locale})
			res := PlatformResult{Platform: platform, Template: tpl}
			if err != nil || tpl == nil {
				res.Err = err
				res.Template = FallbackTemplate(topic, platform)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
