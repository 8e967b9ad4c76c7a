package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aeonis-sim/aeonis/internal/domain"
	"github.com/aeonis-sim/aeonis/internal/infra/simframe"
	"github.com/aeonis-sim/aeonis/internal/infra/simkernel"
	"github.com/aeonis-sim/aeonis/internal/infra/simseed"
	"github.com/aeonis-sim/aeonis/internal/infra/simstore"
)

func init() {
	runCmd.Flags().StringVar(&runSeedFile, "seed", "", "Path to a seed document (required)")
	runCmd.Flags().Uint64Var(&runTicks, "ticks", 100, "Number of ticks to run")
	runCmd.Flags().Uint64Var(&runWorldSeedOverride, "world-seed", 0, "Override the seed document's RNG root (0 = use seed document's own seed)")
	runCmd.Flags().StringVar(&runOutFile, "out", "", "Path to write NDJSON frames (default: stdout)")
	runCmd.Flags().StringVar(&runStorageDir, "storage-dir", "", "Directory for the SQLite run store (empty = no persistence)")
	runCmd.MarkFlagRequired("seed")
	rootCmd.AddCommand(runCmd)
}

var (
	runSeedFile          string
	runTicks             uint64
	runWorldSeedOverride uint64
	runOutFile           string
	runStorageDir        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation for a fixed number of ticks",
	Long:  `Load a seed document, build a world, and advance it tick by tick, emitting one NDJSON frame per tick.`,
	RunE:  runRun,
}

func loadSeed(path string) (domain.Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed domain.Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return domain.Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	seed, err := loadSeed(runSeedFile)
	if err != nil {
		return err
	}

	var worldSeedOverride *uint64
	if runWorldSeedOverride != 0 {
		worldSeedOverride = &runWorldSeedOverride
	}
	world := simseed.BuildWorld(seed, worldSeedOverride)
	if err := world.CheckInvariants(); err != nil {
		return fmt.Errorf("seeded world failed invariant check: %w", err)
	}

	fw, err := openRunOutput(runOutFile)
	if err != nil {
		return err
	}
	defer fw.Close()

	store, runID, err := openRunStore(runStorageDir, seed, world)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var schedule simkernel.Schedule
	for i := uint64(0); i < runTicks; i++ {
		tick := world.Tick + 1
		frame, err := schedule.RunTick(&world, tick)
		if err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		if err := fw.WriteFrame(frame); err != nil {
			return fmt.Errorf("write frame for tick %d: %w", tick, err)
		}
		if store != nil {
			if err := store.TouchRun(runID, tick); err != nil {
				return fmt.Errorf("touch run at tick %d: %w", tick, err)
			}
			if err := store.RecordCauses(runID, tick, frame.Causes); err != nil {
				return fmt.Errorf("record causes at tick %d: %w", tick, err)
			}
		}
		if frame.EraEnd {
			break
		}
	}
	return nil
}

func openRunOutput(path string) (*simframe.Writer, error) {
	if path == "" {
		return simframe.NewWriter(os.Stdout), nil
	}
	return simframe.OpenFile(path)
}

func openRunStore(dir string, seed domain.Seed, world domain.World) (*simstore.DB, string, error) {
	if dir == "" {
		return nil, "", nil
	}
	store, err := simstore.Open(dir)
	if err != nil {
		return nil, "", fmt.Errorf("open run store: %w", err)
	}
	runID := uuid.NewString()
	if err := store.CreateRun(simstore.Run{
		ID:        runID,
		SeedName:  seed.Name,
		WorldSeed: world.Seed,
		Width:     world.Width,
		Height:    world.Height,
		StartedAt: time.Now(),
	}); err != nil {
		store.Close()
		return nil, "", fmt.Errorf("create run record: %w", err)
	}
	return store, runID, nil
}
