// Package summary turns a sequence of hourly forecast periods into a short
// natural-language wind report using threshold classification and randomized
// phrase templates. No model calls, no network; output is deterministic under
// a seeded random source.
package summary

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/westpointwind/marine-api/internal/common"
	"github.com/westpointwind/marine-api/internal/marine"
)

// Wind speed thresholds (mph).
const (
	windThresholdLow      = 10
	windThresholdModerate = 12
	windThresholdHigh     = 15
	windThresholdEpic     = 20
)

// Wind analysis thresholds.
const (
	minConsecutivePeriodsSustained = 3
	gustRangeThreshold             = 5
	windSpeedVarianceThreshold     = 10
)

// Temperature thresholds (Fahrenheit).
const (
	tempWarm        = 75
	tempComfortable = 60
	tempCool        = 45
)

// significantDifference is the mph margin between forecast average and current
// wind below which the two are considered similar.
const significantDifference = 5

const noDataSentence = "No forecast data available."

// CurrentConditions is an optional snapshot used only to pick the opening
// phrase bucket; it never changes the wind description or recommendation.
type CurrentConditions struct {
	WindSpeed     *float64
	WindGust      *float64
	WindDirection *float64
}

type windCondition struct {
	avgSpeed          float64
	maxSpeed          float64
	minSpeed          float64
	sustainedHighWind bool
	gusty             bool
}

type forecastComparison struct {
	isCurrentStronger  bool
	isForecastStronger bool
	isSimilar          bool
	currentSpeed       float64
	forecastAvg        float64
}

// Generator produces forecast summaries. The random source is injected so
// callers (and tests) control reproducibility. rand.Rand is not safe for
// concurrent use, so draws are serialized; one Generator may be shared by all
// in-flight requests.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator drawing phrases from rng.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate composes a four-part summary: opening, wind description, weather
// context, and action recommendation, joined by single spaces.
func (g *Generator) Generate(periods []marine.ForecastPeriod, current *CurrentConditions) string {
	if len(periods) == 0 {
		return noDataSentence
	}

	conditions := analyzeWindConditions(periods)
	comparison := compareWithCurrent(conditions, current)
	weather := dominantWeather(periods)

	var tempSum float64
	for _, p := range periods {
		tempSum += float64(p.Temperature)
	}
	avgTemp := tempSum / float64(len(periods))

	parts := []string{
		g.opening(conditions, comparison),
		g.windDescription(conditions),
		g.weatherContext(weather, avgTemp),
		g.actionRecommendation(conditions, weather),
	}
	return strings.Join(parts, " ")
}

func (g *Generator) pick(pool []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return pool[g.rng.Intn(len(pool))]
}

var windSpeedPattern = regexp.MustCompile(`(\d+)(?:-(\d+))?`)

// parseWindSpeed reads "10 mph" or "10-15 mph" into average and max.
func parseWindSpeed(ws string) (avg, max float64) {
	m := windSpeedPattern.FindStringSubmatch(ws)
	if m == nil {
		return 0, 0
	}
	first, _ := strconv.Atoi(m[1])
	second := first
	if m[2] != "" {
		second, _ = strconv.Atoi(m[2])
	}
	return float64(first), float64(second)
}

func analyzeWindConditions(periods []marine.ForecastPeriod) windCondition {
	var (
		sumAvg         float64
		maxSpeed       = math.Inf(-1)
		minSpeed       = math.Inf(1)
		consecutive    int
		maxConsecutive int
		gustyPeriods   int
	)

	for _, p := range periods {
		avg, max := parseWindSpeed(p.WindSpeed)
		sumAvg += avg
		if max > maxSpeed {
			maxSpeed = max
		}
		if avg < minSpeed {
			minSpeed = avg
		}

		if avg > windThresholdModerate {
			consecutive++
			if consecutive > maxConsecutive {
				maxConsecutive = consecutive
			}
		} else {
			consecutive = 0
		}

		if max-avg > gustRangeThreshold {
			gustyPeriods++
		}
	}

	return windCondition{
		avgSpeed:          sumAvg / float64(len(periods)),
		maxSpeed:          maxSpeed,
		minSpeed:          minSpeed,
		sustainedHighWind: maxConsecutive >= minConsecutivePeriodsSustained,
		gusty:             gustyPeriods > len(periods)/3,
	}
}

func compareWithCurrent(forecast windCondition, current *CurrentConditions) *forecastComparison {
	if current == nil || current.WindSpeed == nil {
		return nil
	}

	currentSpeed := *current.WindSpeed
	difference := forecast.avgSpeed - currentSpeed

	return &forecastComparison{
		isCurrentStronger:  difference < -significantDifference,
		isForecastStronger: difference > significantDifference,
		isSimilar:          math.Abs(difference) <= significantDifference,
		currentSpeed:       currentSpeed,
		forecastAvg:        forecast.avgSpeed,
	}
}

// dominantWeather classifies the period set by substring matching, checked in
// priority order: rain beats storms beats snow beats clear/cloudy majorities.
func dominantWeather(periods []marine.ForecastPeriod) string {
	var clearCount, cloudyCount int
	var rainy, stormy, snowy bool

	for _, p := range periods {
		f := strings.ToLower(p.ShortForecast)
		if common.HasAny(f, "rain", "shower") {
			rainy = true
		}
		if common.HasAny(f, "thunder", "storm") {
			stormy = true
		}
		if strings.Contains(f, "snow") {
			snowy = true
		}
		if common.HasAny(f, "sunny", "clear") || f == "fair" {
			clearCount++
		}
		if common.HasAny(f, "cloud", "overcast") {
			cloudyCount++
		}
	}

	switch {
	case rainy:
		return "rainy"
	case stormy:
		return "stormy"
	case snowy:
		return "snowy"
	case clearCount > len(periods)/2:
		return "sunny"
	case cloudyCount > len(periods)/2:
		return "cloudy"
	default:
		return "mixed"
	}
}

var epicOpenings = []string{
	"🔥 EPIC wind day ahead!",
	"⚡ OH YEAH! Major wind incoming!",
	"🌊 GET PUMPED! Gonna be MASSIVE!",
	"💨 WHOA! This is gonna be WILD!",
}

func (g *Generator) opening(conditions windCondition, comparison *forecastComparison) string {
	avgSpeed := conditions.avgSpeed
	sustained := conditions.sustainedHighWind

	// Current conditions already stronger than the forecast: tone it down.
	if comparison != nil && comparison.isCurrentStronger {
		if avgSpeed > windThresholdHigh {
			return g.pick([]string{
				"💨 Still looking solid ahead!",
				"🌊 Conditions holding steady!",
				"⛵ Should stay pretty good!",
				"👍 Wind staying consistent!",
			})
		}
		if avgSpeed > windThresholdModerate {
			return g.pick([]string{
				"😊 Currently better than forecast!",
				"✨ Enjoy it while it lasts!",
				"🌬️ Making the most of current conditions!",
			})
		}
		return g.pick([]string{
			"🍃 Wind might ease up.",
			"😌 Expecting lighter breeze ahead.",
			"🛶 Could mellow out later.",
		})
	}

	// Similar to current: emphasize steadiness.
	if comparison != nil && comparison.isSimilar && sustained {
		if avgSpeed > windThresholdHigh {
			return g.pick([]string{
				"🎯 Steady strong wind all day!",
				"⛵ Consistent solid conditions!",
				"🌊 Staying steady and strong!",
			})
		}
		return g.pick([]string{
			"👌 Nice and steady today!",
			"✨ Consistent breeze throughout!",
			"🌬️ Holding steady!",
		})
	}

	if sustained && avgSpeed > windThresholdEpic {
		return g.pick(epicOpenings)
	}

	if sustained && avgSpeed > windThresholdHigh {
		return g.pick([]string{
			"🎉 Sweet! Solid wind all day!",
			"🚀 Nice! Gonna be some sick waves out there today!",
			"⛵ Perfect! Sustained wind coming through!",
			"🏄 Excellent! Great conditions ahead!",
		})
	}

	if sustained && avgSpeed > windThresholdModerate {
		return g.pick([]string{
			"👍 Looking good! Consistent wind today!",
			"✨ Decent! Should be fun out there!",
			"🌊 Not bad! Steady breeze coming in!",
			"⛵ Promising! Nice sailing conditions!",
		})
	}

	if avgSpeed > windThresholdModerate {
		return g.pick([]string{
			"👌 Some nice puffs expected!",
			"🌬️ Wind picking up at times!",
			"⛵ Moderate conditions ahead!",
		})
	}

	return g.pick([]string{
		"😌 Light and easy today.",
		"🍃 Gentle breeze ahead.",
		"🛶 Mellow conditions expected.",
	})
}

func (g *Generator) windDescription(conditions windCondition) string {
	windVerb := "drifting"
	switch {
	case conditions.avgSpeed > windThresholdEpic:
		windVerb = "howling"
	case conditions.avgSpeed > windThresholdHigh:
		windVerb = "cranking"
	case conditions.avgSpeed > windThresholdLow:
		windVerb = "blowing"
	}

	gustDesc := ""
	if conditions.gusty {
		gustDesc = " with some gnarly gusts"
	}

	if conditions.maxSpeed-conditions.minSpeed > windSpeedVarianceThreshold {
		return fmt.Sprintf("Wind %s %d-%dmph%s.",
			windVerb, int(math.Round(conditions.minSpeed)), int(math.Round(conditions.maxSpeed)), gustDesc)
	}
	return fmt.Sprintf("Wind %s around %dmph%s.", windVerb, int(math.Round(conditions.avgSpeed)), gustDesc)
}

func (g *Generator) weatherContext(weather string, avgTemp float64) string {
	tempDesc := "chilly"
	switch {
	case avgTemp > tempWarm:
		tempDesc = "warm"
	case avgTemp > tempComfortable:
		tempDesc = "comfortable"
	case avgTemp > tempCool:
		tempDesc = "cool"
	}

	switch weather {
	case "rainy":
		return g.pick([]string{
			"Watch for rain showers.",
			"Bring your rain gear!",
			"Expect some wet conditions.",
		})
	case "stormy":
		return g.pick([]string{
			"Thunderstorms possible - stay safe!",
			"Storms in the forecast.",
			"Weather looking intense.",
		})
	case "sunny":
		return g.pick([]string{
			tempDesc + " and sunny!",
			"Beautiful clear skies!",
			"Perfect " + tempDesc + " weather!",
		})
	case "cloudy":
		return g.pick([]string{
			tempDesc + " with clouds.",
			"Overcast but " + tempDesc + ".",
			"Gray skies, " + tempDesc + " temps.",
		})
	default:
		return g.pick([]string{
			tempDesc + " with varied conditions.",
			"Mixed weather, " + tempDesc + " overall.",
		})
	}
}

func (g *Generator) actionRecommendation(conditions windCondition, weather string) string {
	if weather == "stormy" {
		return "⚠️ Check conditions before heading out."
	}

	if conditions.sustainedHighWind && conditions.avgSpeed > windThresholdHigh {
		return g.pick([]string{
			"Get out there! 🎯",
			"Time to shred! 🤙",
			"Perfect day to get on the water! 💦",
			"Don't miss this! 🔥",
		})
	}

	if conditions.avgSpeed > windThresholdModerate {
		return g.pick([]string{
			"Should be a fun session! 🌊",
			"Good day for some action! ⛵",
			"Decent conditions to play in! 🏄",
		})
	}

	return g.pick([]string{
		"Good for cruising. 🛶",
		"Nice for a relaxed paddle. 🚣",
		"Perfect for beginners! 👍",
	})
}
