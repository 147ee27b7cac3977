// file: internals/features/verification/geofence/dto/geofence_dto.go
package dto

type SetLocationRequest struct {
	GpsLat  float64 `json:"gps_lat" validate:"required,gte=-90,lte=90"`
	GpsLng  float64 `json:"gps_lng" validate:"required,gte=-180,lte=180"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Radius  float64 `json:"radius" validate:"omitempty,gt=0,lte=100000"`
}

type DistanceCheckRequest struct {
	GpsLat float64 `json:"gps_lat" validate:"required,gte=-90,lte=90"`
	GpsLng float64 `json:"gps_lng" validate:"required,gte=-180,lte=180"`
}
