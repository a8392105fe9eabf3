package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ymorita/solventory/internal/config"
	"github.com/ymorita/solventory/internal/db"
	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/service"
	"github.com/ymorita/solventory/internal/store"
)

// seedFile describes the YAML layout accepted by the seed command.
type seedFile struct {
	Rooms    []string `yaml:"rooms"`
	Solvents []struct {
		Name            string `yaml:"name"`
		CASNumber       string `yaml:"cas_number"`
		Formula         string `yaml:"formula"`
		MolecularWeight string `yaml:"molecular_weight"`
	} `yaml:"solvents"`
	Inventory []struct {
		Room    string  `yaml:"room"`
		Solvent string  `yaml:"solvent"`
		Amount  float64 `yaml:"amount"`
	} `yaml:"inventory"`
}

// NewSeedCommand creates the command that loads catalog data from a YAML file.
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load rooms, solvents and initial inventory from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), args[0])
		},
	}
}

func runSeed(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	d, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer d.Close()

	rooms := store.NewRoomStore(d)
	solvents := store.NewSolventStore(d)
	catalog := service.NewCatalogService(rooms, solvents, store.NewInventoryStore(d))

	roomIDs := make(map[string]string)
	existingRooms, err := catalog.ListRooms(ctx)
	if err != nil {
		return err
	}
	for _, r := range existingRooms {
		roomIDs[r.Name] = r.ID
	}
	for _, name := range seed.Rooms {
		if _, ok := roomIDs[name]; ok {
			continue
		}
		room, err := catalog.CreateRoom(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to create room %q: %w", name, err)
		}
		roomIDs[room.Name] = room.ID
	}

	solventIDs := make(map[string]string)
	existingSolvents, err := catalog.ListSolvents(ctx)
	if err != nil {
		return err
	}
	for _, sv := range existingSolvents {
		solventIDs[sv.Name] = sv.ID
	}
	for _, sv := range seed.Solvents {
		if _, ok := solventIDs[sv.Name]; ok {
			continue
		}
		created, err := catalog.CreateSolvent(ctx, sv.Name, sv.CASNumber, sv.Formula, sv.MolecularWeight)
		if err != nil {
			return fmt.Errorf("failed to create solvent %q: %w", sv.Name, err)
		}
		solventIDs[created.Name] = created.ID
	}

	for _, entry := range seed.Inventory {
		roomID, ok := roomIDs[entry.Room]
		if !ok {
			return fmt.Errorf("inventory entry references unknown room %q", entry.Room)
		}
		solventID, ok := solventIDs[entry.Solvent]
		if !ok {
			return fmt.Errorf("inventory entry references unknown solvent %q", entry.Solvent)
		}
		if _, err := catalog.EnsureInventory(ctx, roomID, solventID, domain.LitersFromFloat(entry.Amount)); err != nil {
			return fmt.Errorf("failed to seed inventory for %s/%s: %w", entry.Room, entry.Solvent, err)
		}
	}

	fmt.Printf("seeded %d rooms, %d solvents, %d inventory records\n",
		len(seed.Rooms), len(seed.Solvents), len(seed.Inventory))
	return nil
}
