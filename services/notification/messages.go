package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Message là một thông báo đã dựng sẵn tiêu đề và nội dung
type Message struct {
	Subject string
	Body    string
}

const dateLayout = "Jan 2, 2006 15:04 MST"

func OverstayNotice(petName string, endDate time.Time, days int, fee float64) Message {
	return Message{
		Subject: fmt.Sprintf("%s is past checkout", petName),
		Body: fmt.Sprintf("%s was due to check out on %s and is now %d day(s) over. "+
			"An overstay fee of %.2f has accrued. Please contact the facility to arrange pickup.",
			petName, endDate.Format(dateLayout), days, fee),
	}
}

func EmergencyContactNotice(petName, ownerName string) Message {
	return Message{
		Subject: fmt.Sprintf("Urgent: %s has not been picked up", petName),
		Body: fmt.Sprintf("You are listed as the emergency contact for %s. We have been unable to reach %s "+
			"after repeated attempts. Please contact the facility as soon as possible.", petName, ownerName),
	}
}

func PaymentReminder(amount float64, currency string, due time.Time) Message {
	return Message{
		Subject: "Payment reminder",
		Body: fmt.Sprintf("A payment of %.2f %s for your reservation is due on %s.",
			amount, currency, due.Format(dateLayout)),
	}
}

// OperatorEvent là payload phát lên kênh vận hành
type OperatorEvent struct {
	Type      string      `json:"type"`
	EntityID  string      `json:"entityId"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Build mã hóa event thành chuỗi JSON để broadcast
func (e OperatorEvent) Build() string {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"type":%q,"entityId":%q}`, e.Type, e.EntityID)
	}
	return string(b)
}
