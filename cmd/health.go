package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/urfave/cli/v3"
)

// HealthList prints every health article title.
func (r *Runner) HealthList(ctx context.Context, cmd *cli.Command) error {
	articles, err := services.NewHealthService(r.api).List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(articles, true)
	}

	r.writePlainHeader(fmt.Sprintf("Health information (%d)", len(articles)))
	for _, a := range articles {
		r.writePlain("%-26s %s\n", a.ID, a.Title)
	}
	return nil
}

// HealthShow prints one article.
func (r *Runner) HealthShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	article, err := services.NewHealthService(r.api).Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(article, true)
	}

	r.writePlainHeader(article.Title)
	r.writePlain("%s\n", article.Text)
	if article.UpdatedAt != "" {
		r.writePlainln("Updated %s", article.UpdatedAt)
	}
	return nil
}

// HealthCreate publishes a new article.
func (r *Runner) HealthCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	created, err := services.NewHealthService(api).Create(ctx, models.HealthArticle{
		Title: cmd.String("title"),
		Text:  cmd.String("text"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("health article created", "id", created.ID)
	return r.writePlain("✓ Created %q (%s)\n", created.Title, created.ID)
}

// HealthUpdate changes the title and/or text of an article.
func (r *Runner) HealthUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	updated, err := services.NewHealthService(api).Update(ctx, models.HealthArticle{
		ID:    id,
		Title: cmd.String("title"),
		Text:  cmd.String("text"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("health article updated", "id", id)
	return r.writePlain("✓ Updated %q (%s)\n", updated.Title, id)
}

// HealthDelete removes an article.
func (r *Runner) HealthDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: article id", shared.ErrMissingArgument)
	}

	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	if err := services.NewHealthService(api).Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("health article deleted", "id", id)
	return r.writePlain("✓ Deleted article %s\n", id)
}
