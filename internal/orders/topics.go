package orders

// Semua event lifecycle satu topic; partition key = order_id supaya urutan
// per order terjaga.
const TopicOrderLifecycle = "order.lifecycle"

func PartitionKey(orderID string) []byte { return []byte(orderID) }
