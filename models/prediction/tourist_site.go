package prediction

// TouristSite is one entry of GET /api/tourist-sites.
type TouristSite struct {
	Code         string `json:"code"`
	KoreanName   string `json:"korean_name"`
	MaxCapacity  int    `json:"max_capacity"`
	DistrictCode string `json:"district_code"`
	Nx           int    `json:"nx"`
	Ny           int    `json:"ny"`
}

// TouristSitesResponse is the top-level JSON returned by GET /api/tourist-sites
type TouristSitesResponse struct {
	Sites []TouristSite `json:"sites"`
}
