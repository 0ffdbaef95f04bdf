package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/types"
)

// SeedCommand là một bước seed dữ liệu
type SeedCommand interface {
	Execute(ctx context.Context) error
}

// CreateFacilityCommand tạo facility cùng một kennel cho mỗi kích thước
type CreateFacilityCommand struct {
	repo     repository.Repository
	kennels  *services.KennelService
	facility *models.Facility
	rates    map[models.KennelSize]float64
}

func NewCreateFacilityCommand(repo repository.Repository, kennels *services.KennelService, name, location string) *CreateFacilityCommand {
	return &CreateFacilityCommand{
		repo:     repo,
		kennels:  kennels,
		facility: &models.Facility{ID: uuid.NewString(), Name: name, Location: location},
		rates: map[models.KennelSize]float64{
			models.KennelSizeSmall:      35,
			models.KennelSizeMedium:     45,
			models.KennelSizeLarge:      60,
			models.KennelSizeExtraLarge: 80,
		},
	}
}

func (c *CreateFacilityCommand) Execute(ctx context.Context) error {
	if err := c.repo.CreateFacility(ctx, c.facility); err != nil {
		return err
	}
	for i, size := range models.KennelSizes {
		_, err := c.kennels.Create(ctx, types.System, services.CreateKennelInput{
			FacilityID: c.facility.ID,
			Name:       fmt.Sprintf("K-%02d", i+1),
			Size:       size,
			DailyRate:  c.rates[size],
			Features:   []string{"heated floor"},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateUserCommand tạo user và in token để thử API
type CreateUserCommand struct {
	repo     repository.Repository
	verifier *services.TokenVerifier
	user     *models.User
	out      func(format string, args ...interface{})
}

func NewCreateUserCommand(repo repository.Repository, verifier *services.TokenVerifier, name, email string, role models.Role, out func(string, ...interface{})) *CreateUserCommand {
	return &CreateUserCommand{
		repo:     repo,
		verifier: verifier,
		user:     &models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role},
		out:      out,
	}
}

func (c *CreateUserCommand) Execute(ctx context.Context) error {
	if err := c.repo.CreateUser(ctx, c.user); err != nil {
		return err
	}
	token, err := c.verifier.IssueToken(types.Principal{UserID: c.user.ID, Role: c.user.Role}, 30*24*time.Hour)
	if err != nil {
		return err
	}
	c.out("%-9s %-24s %s\n  token: %s\n", c.user.Role, c.user.Email, c.user.ID, token)
	return nil
}

// CreatePetCommand tạo thú cưng cho owner đã có
type CreatePetCommand struct {
	repo repository.Repository
	pet  *models.Pet
}

func NewCreatePetCommand(repo repository.Repository, owner *models.User, name, breed, emergency string) *CreatePetCommand {
	return &CreatePetCommand{
		repo: repo,
		pet: &models.Pet{
			ID:               uuid.NewString(),
			OwnerID:          owner.ID,
			Name:             name,
			Species:          "dog",
			Breed:            breed,
			EmergencyContact: emergency,
		},
	}
}

func (c *CreatePetCommand) Execute(ctx context.Context) error {
	return c.repo.CreatePet(ctx, c.pet)
}

type CreateAddOnCommand struct {
	repo repository.Repository
	svc  *models.AddOnService
}

func NewCreateAddOnCommand(repo repository.Repository, name string, price float64) *CreateAddOnCommand {
	return &CreateAddOnCommand{repo: repo, svc: &models.AddOnService{ID: uuid.NewString(), Name: name, Price: price}}
}

func (c *CreateAddOnCommand) Execute(ctx context.Context) error {
	return c.repo.CreateAddOnService(ctx, c.svc)
}

// runSeed chạy các bước theo thứ tự, dừng ở bước lỗi đầu tiên
func runSeed(ctx context.Context, steps []SeedCommand) error {
	for _, step := range steps {
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%T: %w", step, err)
		}
	}
	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo facility, kennels, add-ons and users",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		out := func(format string, args ...interface{}) { cmd.Printf(format, args...) }
		owner := NewCreateUserCommand(app.Repo, app.Verifier, "Mai Nguyen", "mai@example.com", models.RolePetOwner, out)
		steps := []SeedCommand{
			NewCreateFacilityCommand(app.Repo, app.Kennels, "Riverside", "District 2"),
			NewCreateAddOnCommand(app.Repo, "Grooming", 25),
			NewCreateAddOnCommand(app.Repo, "Extra walk", 10),
			owner,
			NewCreateUserCommand(app.Repo, app.Verifier, "Linh Tran", "linh@example.com", models.RoleStaff, out),
			NewCreateUserCommand(app.Repo, app.Verifier, "Tuan Le", "tuan@example.com", models.RoleManager, out),
			NewCreatePetCommand(app.Repo, owner.user, "Bun", "corgi", "+84901234567"),
		}
		if err := runSeed(ctx, steps); err != nil {
			return err
		}
		app.Dashboard.Invalidate(ctx)
		cmd.Println("seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
