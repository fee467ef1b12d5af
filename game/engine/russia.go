package engine

// BuiltinMapName identifies the default map shipped with the server.
const BuiltinMapName = "russia"

// NewBuiltinMap builds the default map: 50 cities of Russia joined by
// 85 rail segments. Segment colors are not part of the raw data and are
// assigned at game start.
func NewBuiltinMap() *Map {
	m := &Map{
		Name:                    BuiltinMapName,
		MapCenter:               LatLong{Lat: 57.6012967, Lng: 40.4744424},
		MapZoom:                 4,
		PointsForLongestRoute:   10,
		LongTicketMinPoints:     24,
		ShortTicketsPointsRange: [2]int{6, 11},
		Cities: []City{
			{ID: "Санкт-Петербург", LatLng: LatLong{Lat: 59.938732, Lng: 30.316229}},
			{ID: "Мурманск", LatLng: LatLong{Lat: 68.970665, Lng: 33.07497}},
			{ID: "Псков", LatLng: LatLong{Lat: 57.817398, Lng: 28.334368}},
			{ID: "Смоленск", LatLng: LatLong{Lat: 54.77897, Lng: 32.0471812}},
			{ID: "Курск", LatLng: LatLong{Lat: 51.739433, Lng: 36.179604}},
			{ID: "Москва", LatLng: LatLong{Lat: 55.7504461, Lng: 37.61749431}},
			{ID: "Архангельск", LatLng: LatLong{Lat: 64.543022, Lng: 40.537121}},
			{ID: "Вологда", LatLng: LatLong{Lat: 59.218876, Lng: 39.893276}},
			{ID: "Сыктывкар", LatLng: LatLong{Lat: 61.6685237, Lng: 50.8352024}},
			{ID: "Нарьян-Мар", LatLng: LatLong{Lat: 67.6380175, Lng: 53.0071044}},
			{ID: "Воркута", LatLng: LatLong{Lat: 67.494957, Lng: 64.0401}},
			{ID: "Ивдель", LatLng: LatLong{Lat: 60.6973287, Lng: 60.4172583}},
			{ID: "Салехард", LatLng: LatLong{Lat: 66.5375387, Lng: 66.6157469}},
			{ID: "Нижний Новгород", LatLng: LatLong{Lat: 56.328571, Lng: 44.003506}},
			{ID: "Рязань", LatLng: LatLong{Lat: 54.6295687, Lng: 39.7425039}},
			{ID: "Киров", LatLng: LatLong{Lat: 58.6035257, Lng: 49.6639029}},
			{ID: "Казань", LatLng: LatLong{Lat: 55.7823547, Lng: 49.1242266}},
			{ID: "Саратов", LatLng: LatLong{Lat: 51.530018, Lng: 46.034683}},
			{ID: "Самара", LatLng: LatLong{Lat: 53.198627, Lng: 50.113987}},
			{ID: "Уфа", LatLng: LatLong{Lat: 54.726288, Lng: 55.947727}},
			{ID: "Ижевск", LatLng: LatLong{Lat: 56.866557, Lng: 53.2094166}},
			{ID: "Кудымкар", LatLng: LatLong{Lat: 59.014606, Lng: 54.664135}},
			{ID: "Пермь", LatLng: LatLong{Lat: 58.014965, Lng: 56.246723}},
			{ID: "Екатеринбург", LatLng: LatLong{Lat: 56.839104, Lng: 60.60825}},
			{ID: "Оренбург", LatLng: LatLong{Lat: 51.767452, Lng: 55.097118}},
			{ID: "Воронеж", LatLng: LatLong{Lat: 51.6605982, Lng: 39.2005858}},
			{ID: "Ростов-на-Дону", LatLng: LatLong{Lat: 47.2213858, Lng: 39.7114196}},
			{ID: "Урюпинск", LatLng: LatLong{Lat: 50.7970972, Lng: 42.0051866}},
			{ID: "Волгоград", LatLng: LatLong{Lat: 48.7081906, Lng: 44.5153353}},
			{ID: "Ставрополь", LatLng: LatLong{Lat: 45.0433245, Lng: 41.9690934}},
			{ID: "Элиста", LatLng: LatLong{Lat: 46.306999, Lng: 44.270187}},
			{ID: "Астрахань", LatLng: LatLong{Lat: 46.3498308, Lng: 48.0326203}},
			{ID: "Краснодар", LatLng: LatLong{Lat: 45.0352566, Lng: 38.9764814}},
			{ID: "Владикавказ", LatLng: LatLong{Lat: 43.024593, Lng: 44.68211}},
			{ID: "Магнитогорск", LatLng: LatLong{Lat: 53.4242184, Lng: 58.983136}},
			{ID: "Челябинск", LatLng: LatLong{Lat: 55.1598408, Lng: 61.4025547}},
			{ID: "Пенза", LatLng: LatLong{Lat: 53.200001, Lng: 45.0}},
			{ID: "Петрозаводск", LatLng: LatLong{Lat: 61.790039, Lng: 34.390007}},
			{ID: "Кандалакша", LatLng: LatLong{Lat: 67.151442, Lng: 32.4130551}},
			{ID: "Махачкала", LatLng: LatLong{Lat: 42.9830241, Lng: 47.5048717}},
			{ID: "Тюмень", LatLng: LatLong{Lat: 57.153534, Lng: 65.542274}},
			{ID: "Тобольск", LatLng: LatLong{Lat: 58.1998048, Lng: 68.2512924}},
			{ID: "Ханты-Мансийск", LatLng: LatLong{Lat: 61.00346, Lng: 69.019157}},
			{ID: "Нижневартовск", LatLng: LatLong{Lat: 60.9339411, Lng: 76.5814274}},
			{ID: "Омск", LatLng: LatLong{Lat: 54.991375, Lng: 73.371529}},
			{ID: "Новосибирск", LatLng: LatLong{Lat: 55.0282171, Lng: 82.9234509}},
			{ID: "Лонгъюган", LatLng: LatLong{Lat: 64.7782522, Lng: 70.9559136}},
			{ID: "Томск", LatLng: LatLong{Lat: 56.488712, Lng: 84.952324}},
			{ID: "Новый Уренгой", LatLng: LatLong{Lat: 66.085196, Lng: 76.6799167}},
			{ID: "Сабетта", LatLng: LatLong{Lat: 71.2844523, Lng: 72.0468727}},
		},
		Segments: []Segment{
			{From: "Санкт-Петербург", To: "Москва", Length: 3},
			{From: "Санкт-Петербург", To: "Петрозаводск", Length: 2},
			{From: "Санкт-Петербург", To: "Вологда", Length: 3},
			{From: "Мурманск", To: "Архангельск", Length: 4},
			{From: "Мурманск", To: "Нарьян-Мар", Length: 6},
			{From: "Псков", To: "Москва", Length: 3},
			{From: "Псков", To: "Санкт-Петербург", Length: 1},
			{From: "Псков", To: "Смоленск", Length: 2},
			{From: "Смоленск", To: "Москва", Length: 3},
			{From: "Смоленск", To: "Курск", Length: 3},
			{From: "Курск", To: "Воронеж", Length: 1},
			{From: "Курск", To: "Москва", Length: 3},
			{From: "Москва", To: "Вологда", Length: 2},
			{From: "Москва", To: "Нижний Новгород", Length: 2},
			{From: "Москва", To: "Воронеж", Length: 3},
			{From: "Москва", To: "Рязань", Length: 1},
			{From: "Вологда", To: "Архангельск", Length: 4},
			{From: "Вологда", To: "Сыктывкар", Length: 3},
			{From: "Вологда", To: "Нижний Новгород", Length: 2},
			{From: "Сыктывкар", To: "Нарьян-Мар", Length: 4},
			{From: "Сыктывкар", To: "Воркута", Length: 6},
			{From: "Воркута", To: "Салехард", Length: 1},
			{From: "Ивдель", To: "Салехард", Length: 6},
			{From: "Ивдель", To: "Ханты-Мансийск", Length: 4},
			{From: "Нижний Новгород", To: "Казань", Length: 2},
			{From: "Нижний Новгород", To: "Киров", Length: 3},
			{From: "Нижний Новгород", To: "Пенза", Length: 2},
			{From: "Рязань", To: "Пенза", Length: 2},
			{From: "Киров", To: "Сыктывкар", Length: 3},
			{From: "Киров", To: "Пермь", Length: 3},
			{From: "Казань", To: "Киров", Length: 2},
			{From: "Казань", To: "Уфа", Length: 3},
			{From: "Казань", To: "Ижевск", Length: 2},
			{From: "Казань", To: "Самара", Length: 2},
			{From: "Саратов", To: "Самара", Length: 2},
			{From: "Самара", To: "Оренбург", Length: 3},
			{From: "Уфа", To: "Екатеринбург", Length: 3},
			{From: "Уфа", To: "Челябинск", Length: 2},
			{From: "Уфа", To: "Магнитогорск", Length: 1},
			{From: "Уфа", To: "Оренбург", Length: 2},
			{From: "Ижевск", To: "Пермь", Length: 2},
			{From: "Кудымкар", To: "Пермь", Length: 1},
			{From: "Кудымкар", To: "Ивдель", Length: 3},
			{From: "Пермь", To: "Екатеринбург", Length: 2},
			{From: "Екатеринбург", To: "Ивдель", Length: 3},
			{From: "Екатеринбург", To: "Челябинск", Length: 1},
			{From: "Воронеж", To: "Урюпинск", Length: 1},
			{From: "Воронеж", To: "Ростов-на-Дону", Length: 3},
			{From: "Ростов-на-Дону", To: "Волгоград", Length: 2},
			{From: "Ростов-на-Дону", To: "Ставрополь", Length: 2},
			{From: "Урюпинск", To: "Волгоград", Length: 2},
			{From: "Волгоград", To: "Астрахань", Length: 2},
			{From: "Волгоград", To: "Саратов", Length: 2},
			{From: "Ставрополь", To: "Элиста", Length: 2},
			{From: "Элиста", To: "Астрахань", Length: 2},
			{From: "Элиста", To: "Волгоград", Length: 2},
			{From: "Элиста", To: "Махачкала", Length: 3},
			{From: "Краснодар", To: "Ростов-на-Дону", Length: 1},
			{From: "Краснодар", To: "Ставрополь", Length: 1},
			{From: "Краснодар", To: "Владикавказ", Length: 3},
			{From: "Владикавказ", To: "Махачкала", Length: 1},
			{From: "Магнитогорск", To: "Челябинск", Length: 2},
			{From: "Челябинск", To: "Тюмень", Length: 2},
			{From: "Челябинск", To: "Омск", Length: 4},
			{From: "Пенза", To: "Самара", Length: 2},
			{From: "Пенза", To: "Саратов", Length: 1},
			{From: "Петрозаводск", To: "Вологда", Length: 3},
			{From: "Кандалакша", To: "Петрозаводск", Length: 4},
			{From: "Кандалакша", To: "Мурманск", Length: 2},
			{From: "Кандалакша", To: "Архангельск", Length: 4},
			{From: "Махачкала", To: "Астрахань", Length: 3},
			{From: "Тюмень", To: "Омск", Length: 3},
			{From: "Тюмень", To: "Тобольск", Length: 1},
			{From: "Тобольск", To: "Омск", Length: 3},
			{From: "Тобольск", To: "Ханты-Мансийск", Length: 3},
			{From: "Ханты-Мансийск", To: "Нижневартовск", Length: 2},
			{From: "Нижневартовск", To: "Томск", Length: 3},
			{From: "Нижневартовск", To: "Новый Уренгой", Length: 4},
			{From: "Омск", To: "Новосибирск", Length: 4},
			{From: "Новосибирск", To: "Томск", Length: 1},
			{From: "Лонгъюган", To: "Салехард", Length: 2},
			{From: "Лонгъюган", To: "Ханты-Мансийск", Length: 3},
			{From: "Лонгъюган", To: "Новый Уренгой", Length: 3},
			{From: "Сабетта", To: "Салехард", Length: 4},
			{From: "Сабетта", To: "Мурманск", Length: 8},
		},
	}
	if err := m.Init(); err != nil {
		panic(err)
	}
	return m
}
