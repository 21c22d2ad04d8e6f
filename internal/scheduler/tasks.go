package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOrderGeocode = "orders.geocode"

type OrderGeocodePayload struct {
	OrderID string `json:"orderId"`
}

func NewOrderGeocodeTask(payload OrderGeocodePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderGeocode, data), nil
}

func ParseOrderGeocodePayload(task *asynq.Task) (OrderGeocodePayload, error) {
	var payload OrderGeocodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrderGeocodePayload{}, err
	}
	return payload, nil
}
