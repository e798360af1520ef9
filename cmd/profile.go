package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/souffle/internal/models"
	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) userService(ctx context.Context) (*services.UserService, error) {
	api, err := r.authedAPI(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewUserService(api), nil
}

// ProfileShow fetches the profile and refreshes the cached copy.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.userService(ctx)
	if err != nil {
		return err
	}

	user, err := svc.Profile(ctx)
	if err != nil {
		return err
	}
	if err := r.session.UpdateUser(user); err != nil {
		r.logger.Warn("failed to cache profile", "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlainHeader(user.DisplayName())
	r.writePlain("Email:     %s\n", user.Email)
	if user.Username != "" {
		r.writePlain("Username:  %s\n", user.Username)
	}
	if user.Level != "" {
		r.writePlain("Level:     %s\n", user.Level)
	}
	if user.SessionsDone > 0 {
		r.writePlain("Sessions:  %d (%d min, streak %d)\n", user.SessionsDone, user.TotalMinutes, user.CurrentStreak)
	}
	if p := user.Preferences; p != nil {
		r.writePlainln("Preferences")
		if p.PreferredDuration > 0 {
			r.writePlain("Duration:  %d min\n", p.PreferredDuration)
		}
		if p.PreferredType != "" {
			r.writePlain("Type:      %s\n", p.PreferredType)
		}
		r.writePlain("Notify:    %t\n", p.Notifications)
		if p.DailyReminders {
			r.writePlain("Reminder:  daily at %s\n", p.ReminderTime)
		}
	}
	return nil
}

// ProfileUpdate changes name, email, username or level.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.userService(ctx)
	if err != nil {
		return err
	}

	fresh, err := svc.UpdateProfile(ctx, models.ProfileUpdate{
		LastName:  cmd.String("last-name"),
		FirstName: cmd.String("first-name"),
		Email:     cmd.String("email"),
		Username:  cmd.String("username"),
		Level:     cmd.String("level"),
	})
	if err != nil {
		return err
	}

	user := fresh
	if current := r.session.User(); current != nil {
		merged := *current
		merged.LastName, merged.FirstName, merged.Email = fresh.LastName, fresh.FirstName, fresh.Email
		if fresh.Username != "" {
			merged.Username = fresh.Username
		}
		if fresh.Level != "" {
			merged.Level = fresh.Level
		}
		user = &merged
	}
	if err := r.session.UpdateUser(user); err != nil {
		r.logger.Warn("failed to cache profile", "error", err)
	}

	r.logger.Info("profile updated", "user", user.ID())
	return r.writePlain("✓ Profile updated for %s\n", user.DisplayName())
}

// ProfilePreferences sends the preference flags that were set.
func (r *Runner) ProfilePreferences(ctx context.Context, cmd *cli.Command) error {
	var update models.PreferencesUpdate
	if cmd.IsSet("duration") {
		minutes := cmd.Int("duration")
		update.PreferredDuration = &minutes
	}
	if cmd.IsSet("type") {
		kind := cmd.String("type")
		update.PreferredType = &kind
	}
	if cmd.IsSet("notifications") {
		on := cmd.Bool("notifications")
		update.Notifications = &on
	}
	if cmd.IsSet("reminders") {
		on := cmd.Bool("reminders")
		update.DailyReminders = &on
	}
	if cmd.IsSet("reminder-time") {
		at := cmd.String("reminder-time")
		update.ReminderTime = &at
	}

	svc, err := r.userService(ctx)
	if err != nil {
		return err
	}
	prefs, err := svc.UpdatePreferences(ctx, update)
	if err != nil {
		return err
	}

	if current := r.session.User(); current != nil {
		user := *current
		user.Preferences = prefs
		if err := r.session.UpdateUser(&user); err != nil {
			r.logger.Warn("failed to cache preferences", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(prefs, true)
	}
	r.writePlain("✓ Preferences saved\n")
	if prefs.PreferredDuration > 0 {
		r.writePlain("Duration:  %d min\n", prefs.PreferredDuration)
	}
	if prefs.PreferredType != "" {
		r.writePlain("Type:      %s\n", prefs.PreferredType)
	}
	return nil
}

// UsersList prints every account. Admin only.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	users, err := services.NewUserService(api).List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		status := ""
		if !u.Active {
			status = " (inactive)"
		}
		r.writePlain("%-26s %-12s %-28s %s%s\n", u.ID(), u.Role, u.Email, u.DisplayName(), status)
	}
	return nil
}

// UsersCreate adds an account. Admin only.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}

	password, err := r.readPassword(cmd)
	if err != nil {
		return err
	}

	created, err := services.NewUserService(api).Create(ctx, models.NewAccount{
		LastName:  cmd.String("last-name"),
		FirstName: cmd.String("first-name"),
		Email:     cmd.String("email"),
		Password:  password,
		Role:      cmd.String("role"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("user created", "id", created.ID(), "role", created.Role)
	return r.writePlain("✓ Created %s <%s> (%s)\n", created.DisplayName(), created.Email, created.ID())
}

// UsersDelete removes an account. Admin only.
func (r *Runner) UsersDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: user id", shared.ErrMissingArgument)
	}

	api, err := r.adminAPI(ctx)
	if err != nil {
		return err
	}
	if err := services.NewUserService(api).Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("user deleted", "id", id)
	return r.writePlain("✓ Deleted user %s\n", id)
}
