package directory

// DefaultNames is the recipient list used to seed an empty database.
// Order is significant: it is preserved as the directory order.
var DefaultNames = []string{
	"Ellen Bataglia",
	"Ellen Delon",
	"James Smith",
	"Mary Johnson",
	"Robert Williams",
	"Patricia Brown",
	"John Jones",
	"Jennifer Garcia",
	"Michael Miller",
	"Linda Davis",
	"William Rodriguez",
	"Elizabeth Martinez",
	"David Hernandez",
	"Barbara Lopez",
	"Richard Gonzalez",
	"Susan Wilson",
	"Joseph Anderson",
	"Jessica Taylor",
	"Thomas Moore",
	"Sarah Jackson",
	"Charles White",
	"Karen Harris",
	"Christopher Martin",
	"Nancy Thompson",
	"Daniel Garcia",
	"Lisa Robinson",
	"Matthew Lewis",
	"Betty Walker",
	"Anthony Perez",
	"Dorothy Hall",
	"Mark Allen",
	"Sandra Young",
	"Donald King",
	"Ashley Wright",
	"Steven Scott",
	"Kimberly Green",
	"Paul Adams",
	"Emily Baker",
	"Andrew Nelson",
	"Donna Hill",
	"Joshua Ramirez",
	"Michelle Campbell",
	"Kenneth Mitchell",
	"Carol Roberts",
	"Kevin Carter",
	"Amanda Phillips",
	"Brian Evans",
	"Melissa Turner",
	"George Torres",
	"Deborah Parker",
	"Edward Collins",
	"Stephanie Edwards",
	"Ronald Stewart",
	"Sharon Flores",
	"Timothy Morris",
	"Cynthia Nguyen",
	"Jason Murphy",
	"Kathleen Rivera",
	"Jeffrey Cook",
	"Helen Rogers",
	"Ryan Morgan",
	"Diane Peterson",
	"Jacob Cooper",
	"Christine Reed",
	"Gary Bailey",
	"Rebecca Bell",
	"Nicholas Gomez",
	"Laura Kelly",
	"Eric Howard",
	"Catherine Ward",
	"Stephen Cox",
	"Teresa Diaz",
	"Jonathan Richardson",
	"Maria Wood",
	"Sean Watson",
	"Heather Brooks",
	"Adam Bennett",
	"Diane Gray",
	"Nathan James",
	"Julia Sanders",
	"Jeremy Price",
	"Ann Barnes",
	"Patrick Ross",
	"Alice Henderson",
	"Gerald Perry",
	"Christina Powell",
	"Gregory Long",
	"Olivia Patterson",
	"Tyler Hughes",
	"Victoria Butler",
	"Dennis Simmons",
	"Lori Foster",
	"Raymond Bryant",
	"Joyce Gonzales",
	"Samuel Alexander",
	"Julie Russell",
	"Keith Griffin",
	"Ellen Richardson",
	"Ellen Johnson",
	"Ellen Williams",
	"Ellen Carter",
	"Judith Diaz",
	"Terry West",
	"Christina Cole",
}
