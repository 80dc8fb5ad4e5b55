package usecases

import (
	"math"
	"strings"
	"time"

	"nexus-server/entities"
	"nexus-server/repositories"
)

const (
	// BaseMonthlyReward is the monthly protocol reward a fresh batch
	// generates before vesting decay.
	BaseMonthlyReward = 104.16
	// VestingMonths is how long the monthly reward takes to decay to zero.
	VestingMonths = 12
	// FallbackMultiplier applies when the asset class suffix is not a
	// recognized grade.
	FallbackMultiplier = 0.35
)

// Multiplier grades an asset class by its last letter. It scales only
// the displayed offset estimate, never the mintable amount.
func Multiplier(assetClass string) float64 {
	if assetClass == "" {
		return FallbackMultiplier
	}
	switch strings.ToUpper(assetClass[len(assetClass)-1:]) {
	case "A":
		return 100
	case "B":
		return 75
	case "C":
		return 50
	case "D":
		return 25
	default:
		return FallbackMultiplier
	}
}

// RewardSummary is the claim-gating view of one device. Claimable and
// OffsetEstimate are nil while the device is Pending.
type RewardSummary struct {
	Status                 string   `json:"status"`
	AssetClass             string   `json:"assetClass,omitempty"`
	Claimable              *float64 `json:"claimable,omitempty"`
	Multiplier             float64  `json:"multiplier"`
	OffsetEstimate         *float64 `json:"offsetEstimate,omitempty"`
	MonthlyReward          float64  `json:"monthlyReward"`
	DaysUntilNextReduction int      `json:"daysUntilNextReduction"`
}

type RewardAccountant struct{}

// Summarize derives the device's claim state from its latest telemetry.
// One unit of TOV is one unit of claimable credit; a device with no TOV
// yet is Pending, never an error. The monthly reward decays linearly to
// zero over VestingMonths, anchored at the later of device creation and
// last claim.
func (RewardAccountant) Summarize(device *entities.Device, latest *repositories.LatestTOV, now time.Time) RewardSummary {
	summary := RewardSummary{
		Status:     "Pending",
		Multiplier: FallbackMultiplier,
	}

	var kind entities.CreditKind = entities.CreditWater
	if latest != nil {
		summary.AssetClass = latest.AssetClass
		if strings.Contains(strings.ToUpper(latest.AssetClass), "ENG") {
			kind = entities.CreditEnergy
		}
	}

	anchor := claimAnchor(device, kind, now)
	elapsed := fullMonthsBetween(anchor, now)
	summary.MonthlyReward = monthlyReward(elapsed)
	summary.DaysUntilNextReduction = daysUntilNextReduction(anchor, elapsed, now)

	if latest == nil {
		return summary
	}

	claimable := latest.TOV
	mult := Multiplier(latest.AssetClass)
	offset := claimable * mult

	summary.Status = "Claimable"
	summary.Claimable = &claimable
	summary.Multiplier = mult
	summary.OffsetEstimate = &offset
	return summary
}

// claimAnchor is the later of device creation and the last claim of the
// relevant credit kind.
func claimAnchor(device *entities.Device, kind entities.CreditKind, now time.Time) time.Time {
	anchor := now
	if created, err := time.Parse(time.RFC3339, device.CreatedAt); err == nil {
		anchor = created
	}
	if last := device.LastClaim(kind); last != nil {
		if claimed, err := time.Parse(time.RFC3339, *last); err == nil && claimed.After(anchor) {
			anchor = claimed
		}
	}
	return anchor
}

// fullMonthsBetween counts whole calendar months from anchor to now.
func fullMonthsBetween(anchor, now time.Time) int {
	months := 0
	for !anchor.AddDate(0, months+1, 0).After(now) {
		months++
	}
	return months
}

// monthlyReward reduces the base by 1/12 for every full month elapsed
// past the anchor, bottoming out at zero.
func monthlyReward(elapsedMonths int) float64 {
	if elapsedMonths >= VestingMonths {
		return 0
	}
	return BaseMonthlyReward * float64(VestingMonths-elapsedMonths) / VestingMonths
}

func daysUntilNextReduction(anchor time.Time, elapsedMonths int, now time.Time) int {
	if elapsedMonths >= VestingMonths {
		return 0
	}
	next := anchor.AddDate(0, elapsedMonths+1, 0)
	return int(math.Ceil(next.Sub(now).Hours() / 24))
}
