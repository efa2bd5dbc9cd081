package domain

import "time"

// zodiacRange диапазон дат знака (тропический зодиак)
type zodiacRange struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
	sign       string
}

// Границы приблизительные, могут плавать на день в зависимости от года
var zodiacRanges = []zodiacRange{
	{time.December, 22, time.January, 19, "Capricorn"},
	{time.January, 20, time.February, 18, "Aquarius"},
	{time.February, 19, time.March, 20, "Pisces"},
	{time.March, 21, time.April, 19, "Aries"},
	{time.April, 20, time.May, 20, "Taurus"},
	{time.May, 21, time.June, 20, "Gemini"},
	{time.June, 21, time.July, 22, "Cancer"},
	{time.July, 23, time.August, 22, "Leo"},
	{time.August, 23, time.September, 22, "Virgo"},
	{time.September, 23, time.October, 22, "Libra"},
	{time.October, 23, time.November, 21, "Scorpio"},
	{time.November, 22, time.December, 21, "Sagittarius"},
}

// CalculateZodiacSign вычисляет знак зодиака по дате рождения (YYYY-MM-DD)
func CalculateZodiacSign(birthDate string) (string, error) {
	parsed, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return "", NewValidationError("birth_date", "invalid date format, expected YYYY-MM-DD")
	}

	month := parsed.Month()
	day := parsed.Day()

	for _, r := range zodiacRanges {
		if r.startMonth > r.endMonth {
			// Знак через границу года (Козерог: декабрь-январь)
			if (month == r.startMonth && day >= r.startDay) || (month == r.endMonth && day <= r.endDay) {
				return r.sign, nil
			}
		} else {
			if (month == r.startMonth && day >= r.startDay) ||
				(month == r.endMonth && day <= r.endDay) ||
				(r.startMonth < month && month < r.endMonth) {
				return r.sign, nil
			}
		}
	}

	return "Unknown", nil
}
