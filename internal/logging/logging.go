package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Fields is one structured log line. Zero-valued optional fields are dropped.
type Fields struct {
	Component  string `json:"component"`
	CustomerID int    `json:"customer_id,omitempty"`
	OrderID    int    `json:"order_id,omitempty"`
	Attempt    int    `json:"attempt,omitempty"`
	Count      int    `json:"count,omitempty"`
	Status     string `json:"status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

type line struct {
	Fields
	Timestamp string `json:"timestamp"`
}

func Log(fields Fields) {
	data, err := json.Marshal(line{Fields: fields, Timestamp: time.Now().UTC().Format(time.RFC3339Nano)})
	if err != nil {
		log.Printf("{\"component\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Component, err.Error())
		return
	}
	log.Print(string(data))
}

// Error logs err under component with a short message.
func Error(component, message string, err error) {
	f := Fields{Component: component, Status: "error", Message: message}
	if err != nil {
		f.Error = err.Error()
	}
	Log(f)
}
