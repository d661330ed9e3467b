// Package question selects the next sweep image a player has to classify.
package question

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/garudlab/sweepquiz/internal/models"
)

const imageExtension = ".png"

// Picker draws questions uniformly at random: first a category, then one of
// the images configured for that category. Image assets live under
// /SweepImages/<Category>/sweeps_<category><n>.png.
type Picker struct {
	poolSize int

	mu  sync.Mutex // rand.Rand is not safe for concurrent draws
	rnd *rand.Rand
}

// New creates a Picker with poolSize images per category.
func New(poolSize int, seed int64) *Picker {
	if poolSize <= 0 {
		poolSize = 5
	}
	return &Picker{
		poolSize: poolSize,
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

// Next returns a freshly drawn question. The category is the ground truth
// the player's guess will be scored against.
func (p *Picker) Next() (models.Category, string) {
	p.mu.Lock()
	category := models.Categories[p.rnd.Intn(len(models.Categories))]
	index := p.rnd.Intn(p.poolSize) + 1
	p.mu.Unlock()
	return category, imagePath(category, index)
}

func imagePath(category models.Category, index int) string {
	name := fmt.Sprintf("sweeps_%s%d%s", strings.ToLower(string(category)), index, imageExtension)
	return fmt.Sprintf("/SweepImages/%s/%s", category, name)
}
