package analysis

// Per-factor score above which the factor's guidance fires.
const adviceThreshold = 60

// Recommend turns an assessment into actionable guidance. Rules fire
// on the factor scores and their analysis details.
func Recommend(a *Assessment) []string {
	if a == nil {
		return nil
	}
	recs := []string{}

	recovery := a.RiskFactors[FactorRecovery]
	mood := a.RiskFactors[FactorMood]
	hrv := a.RiskFactors[FactorHRV]
	sleep := a.RiskFactors[FactorSleep]
	strain := a.RiskFactors[FactorStrainBalance]

	// ---------- Recovery ----------
	if recovery.RiskScore > adviceThreshold {
		recs = append(recs, "📉 Your recovery scores are low. Consider reducing training intensity and prioritizing rest.")
	}

	// ---------- Mood ----------
	if mood.RiskScore > adviceThreshold {
		recs = append(recs, "😔 Your mood has been low recently. Consider stress management techniques or talking to someone.")
	}
	if mood.Analysis.Variance > 2 {
		recs = append(recs, "📊 Your mood is fluctuating significantly. Try to identify and address sources of stress.")
	}

	// ---------- HRV ----------
	if hrv.RiskScore > adviceThreshold {
		recs = append(recs, "❤️ Your HRV is low, indicating high stress. Try meditation, breathing exercises, or gentle yoga.")
	}

	// ---------- Sleep ----------
	if hours := sleep.Analysis.AverageDurationHours; hours > 0 {
		if hours < 7 {
			recs = append(recs, "😴 You're not getting enough sleep. Aim for 7-9 hours per night.")
		} else if hours > 9 {
			recs = append(recs, "⏰ You're sleeping more than usual. This could indicate overtraining or other health issues.")
		}
	}
	if sleep.RiskScore > adviceThreshold {
		recs = append(recs, "🛏️ Your sleep quality is poor. Improve sleep hygiene: dark room, cool temperature, no screens before bed.")
	}

	// ---------- Strain balance ----------
	if strain.RiskScore > adviceThreshold {
		recs = append(recs, "⚖️ Your training strain is exceeding your recovery capacity. Take a rest day or reduce intensity.")
	}

	// ---------- Overall ----------
	switch {
	case a.OverallRisk > 70:
		recs = append(recs, "🚨 High burnout risk detected. Consider taking time off and consulting a healthcare professional.")
	case a.OverallRisk > 50:
		recs = append(recs, "⚠️ Moderate burnout risk. Focus on recovery, sleep, and stress management this week.")
	}
	if a.OverallRisk < 30 {
		recs = append(recs, "✅ Great job! Your health metrics look excellent. Keep up the balanced routine.")
	}

	return recs
}
