package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const whoopAPIBaseURL = "https://api.prod.whoop.com/developer/v1"

// WhoopClient pulls one user's data from the WHOOP developer API using
// their stored access token. Requests are rate limited well inside
// WHOOP's 100/minute ceiling.
type WhoopClient struct {
	client      *http.Client
	rateLimiter *rate.Limiter
	accessToken string
	baseURL     string
}

func NewWhoopClient(accessToken string) *WhoopClient {
	return &WhoopClient{
		client:      &http.Client{Timeout: 30 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/100), 10),
		accessToken: accessToken,
		baseURL:     whoopAPIBaseURL,
	}
}

// ---------- Wire types ----------

type WhoopRecovery struct {
	CycleID    int64     `json:"cycle_id"`
	SleepID    int64     `json:"sleep_id"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ScoreState string    `json:"score_state"`
	Score      struct {
		UserCalibrating  bool    `json:"user_calibrating"`
		RecoveryScore    float64 `json:"recovery_score"`
		RestingHeartRate float64 `json:"resting_heart_rate"`
		HRVRmssd         float64 `json:"hrv_rmssd_milli"`
		SpO2Percentage   float64 `json:"spo2_percentage"`
		SkinTempCelsius  float64 `json:"skin_temp_celsius"`
	} `json:"score"`
}

type WhoopSleep struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	TimezoneOffset string    `json:"timezone_offset"`
	Nap            bool      `json:"nap"`
	ScoreState     string    `json:"score_state"`
	Score          struct {
		StageSummary struct {
			TotalInBedTimeMilli         int `json:"total_in_bed_time_milli"`
			TotalAwakeTimeMilli         int `json:"total_awake_time_milli"`
			TotalNoDataTimeMilli        int `json:"total_no_data_time_milli"`
			TotalLightSleepTimeMilli    int `json:"total_light_sleep_time_milli"`
			TotalSlowWaveSleepTimeMilli int `json:"total_slow_wave_sleep_time_milli"`
			TotalRemSleepTimeMilli      int `json:"total_rem_sleep_time_milli"`
			SleepCycleCount             int `json:"sleep_cycle_count"`
			DisturbanceCount            int `json:"disturbance_count"`
		} `json:"stage_summary"`
		RespiratoryRate            float64 `json:"respiratory_rate"`
		SleepPerformancePercentage float64 `json:"sleep_performance_percentage"`
		SleepConsistencyPercentage float64 `json:"sleep_consistency_percentage"`
		SleepEfficiencyPercentage  float64 `json:"sleep_efficiency_percentage"`
	} `json:"score"`
}

type WhoopCycle struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Start          time.Time  `json:"start"`
	End            *time.Time `json:"end"` // nil while the cycle is open
	TimezoneOffset string     `json:"timezone_offset"`
	ScoreState     string     `json:"score_state"`
	Score          struct {
		Strain           float64 `json:"strain"`
		Kilojoule        float64 `json:"kilojoule"`
		AverageHeartRate float64 `json:"average_heart_rate"`
		MaxHeartRate     float64 `json:"max_heart_rate"`
	} `json:"score"`
}

type WhoopWorkout struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	SportID    int       `json:"sport_id"`
	ScoreState string    `json:"score_state"`
	Score      struct {
		Strain           float64 `json:"strain"`
		AverageHeartRate float64 `json:"average_heart_rate"`
		MaxHeartRate     float64 `json:"max_heart_rate"`
		Kilojoule        float64 `json:"kilojoule"`
	} `json:"score"`
}

type whoopRecoveryPage struct {
	Data      []WhoopRecovery `json:"records"`
	NextToken *string         `json:"next_token"`
}

type whoopSleepPage struct {
	Data      []WhoopSleep `json:"records"`
	NextToken *string      `json:"next_token"`
}

type whoopCyclePage struct {
	Data      []WhoopCycle `json:"records"`
	NextToken *string      `json:"next_token"`
}

type whoopWorkoutPage struct {
	Data      []WhoopWorkout `json:"records"`
	NextToken *string        `json:"next_token"`
}

// ---------- Requests ----------

func (w *WhoopClient) makeRequest(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := w.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	requestURL := w.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, w.apiError(resp.StatusCode, body)
	}
	return body, nil
}

func (w *WhoopClient) apiError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("whoop authentication failed: token invalid or expired")
	case http.StatusForbidden:
		return fmt.Errorf("whoop access denied: missing scope")
	case http.StatusTooManyRequests:
		return fmt.Errorf("whoop rate limit exceeded")
	case http.StatusNotFound:
		return fmt.Errorf("whoop resource not found")
	default:
		return fmt.Errorf("whoop api error (status %d): %s", statusCode, string(body))
	}
}

func rangeParams(start, end time.Time) url.Values {
	params := url.Values{}
	params.Set("start", start.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("end", end.UTC().Format("2006-01-02T15:04:05Z"))
	params.Set("limit", "25") // API maximum per page
	return params
}

// Recoveries fetches every recovery record in the range, following
// pagination tokens.
func (w *WhoopClient) Recoveries(ctx context.Context, start, end time.Time) ([]WhoopRecovery, error) {
	params := rangeParams(start, end)
	var all []WhoopRecovery
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}
		body, err := w.makeRequest(ctx, "/recovery", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get recovery data: %w", err)
		}

		var page whoopRecoveryPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse recovery data: %w", err)
		}
		all = append(all, page.Data...)

		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		nextToken = *page.NextToken
	}
	return all, nil
}

func (w *WhoopClient) Sleeps(ctx context.Context, start, end time.Time) ([]WhoopSleep, error) {
	params := rangeParams(start, end)
	var all []WhoopSleep
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}
		body, err := w.makeRequest(ctx, "/activity/sleep", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get sleep data: %w", err)
		}

		var page whoopSleepPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse sleep data: %w", err)
		}
		all = append(all, page.Data...)

		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		nextToken = *page.NextToken
	}
	return all, nil
}

func (w *WhoopClient) Cycles(ctx context.Context, start, end time.Time) ([]WhoopCycle, error) {
	params := rangeParams(start, end)
	var all []WhoopCycle
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}
		body, err := w.makeRequest(ctx, "/cycle", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get cycle data: %w", err)
		}

		var page whoopCyclePage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse cycle data: %w", err)
		}
		all = append(all, page.Data...)

		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		nextToken = *page.NextToken
	}
	return all, nil
}

func (w *WhoopClient) Workouts(ctx context.Context, start, end time.Time) ([]WhoopWorkout, error) {
	params := rangeParams(start, end)
	var all []WhoopWorkout
	nextToken := ""

	for {
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}
		body, err := w.makeRequest(ctx, "/activity/workout", params)
		if err != nil {
			return nil, fmt.Errorf("failed to get workout data: %w", err)
		}

		var page whoopWorkoutPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse workout data: %w", err)
		}
		all = append(all, page.Data...)

		if page.NextToken == nil || *page.NextToken == "" {
			break
		}
		nextToken = *page.NextToken
	}
	return all, nil
}
