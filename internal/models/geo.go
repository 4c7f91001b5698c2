package models

// Region is the top level of the PSGC address hierarchy
type Region struct {
	ID   string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
}

func (Region) TableName() string {
	return "regions"
}

type Province struct {
	ID       string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code     string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name     string  `gorm:"not null" json:"name"`
	RegionID string  `gorm:"type:varchar(36);not null;index" json:"regionId"`
	Region   *Region `gorm:"foreignKey:RegionID" json:"region,omitempty"`
}

func (Province) TableName() string {
	return "provinces"
}

type City struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code       string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name       string    `gorm:"not null" json:"name"`
	ProvinceID string    `gorm:"type:varchar(36);not null;index" json:"provinceId"`
	Province   *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
}

func (City) TableName() string {
	return "cities"
}

// Barangay is the leaf that applications reference as their address
type Barangay struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code   string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name   string `gorm:"not null" json:"name"`
	CityID string `gorm:"type:varchar(36);not null;index" json:"cityId"`
	City   *City  `gorm:"foreignKey:CityID" json:"city,omitempty"`
}

func (Barangay) TableName() string {
	return "barangays"
}
