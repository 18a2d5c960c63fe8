package view

// Menu labels double as the text the client sends back when pressed.
const (
	BtnProducts      = "🛍 Mahsulotlar"
	BtnCart          = "🧺 Savatni ko'rish"
	BtnAddProduct    = "➕ Mahsulot qo'shish"
	BtnEditProduct   = "✏️ Mahsulotni o'zgartirish"
	BtnDeleteProduct = "❌ Mahsulotni o'chirish"
	BtnMainMenu      = "🔙 Asosiy menyu"
	BtnEditName      = "Nomini o'zgartirish"
	BtnEditPrice     = "Narxini o'zgartirish"
	BtnCheckout      = "💰 Hisob-kitob"
)

const (
	MsgWelcomeFmt      = "Assalomu alaykum, %s!\nKorzinka botiga xush kelibsiz. Mahsulotlarni ko'rish uchun quyidagi tugmani bosing:"
	MsgAdminOnly       = "Bu buyruq faqat adminlar uchun."
	MsgAdminWelcome    = "Admin panelga xush kelibsiz!"
	MsgBackToMain      = "Asosiy menyuga qaytdingiz."
	MsgCancelled       = "Amal bekor qilindi."
	MsgNoProducts      = "Hozircha mahsulotlar mavjud emas."
	MsgProductList     = "Mahsulotlar ro'yxati:"
	MsgChooseToEdit    = "O'zgartirish uchun mahsulotni tanlang:"
	MsgChooseToDelete  = "O'chirish uchun mahsulotni tanlang:"
	MsgAskName         = "Yangi mahsulot nomini kiriting:"
	MsgAskPrice        = "Mahsulot narxini kiriting (faqat raqam):"
	MsgAskNewName      = "Yangi nomni kiriting:"
	MsgAskNewPrice     = "Yangi narxni kiriting (faqat raqam):"
	MsgAskQuantity     = "Miqdorni tanlang yoki kiriting:"
	MsgEnterNumber     = "Iltimos, faqat raqam kiriting. Qaytadan urinib ko'ring:"
	MsgPricePositive   = "Narx musbat son bo'lishi kerak. Qaytadan kiriting:"
	MsgPriceTooPrecise = "Narxda ko'pi bilan 2 ta kasr raqam bo'lishi mumkin. Qaytadan kiriting:"
	MsgPriceTooLarge   = "Narx juda katta. Qaytadan kiriting:"
	MsgQtyNumber       = "Iltimos, raqam kiriting."
	MsgQtyPositive     = "Iltimos, musbat son kiriting."
	MsgQtyTooLarge     = "Miqdor juda katta. Kichikroq son kiriting."
	MsgNameEmpty       = "Nom bo'sh bo'lishi mumkin emas. Qaytadan kiriting:"
	MsgNameTooLong     = "Nom juda uzun. Qisqaroq nom kiriting:"
	MsgNotFound        = "Mahsulot topilmadi"
	MsgItemNotFound    = "Mahsulot savatda topilmadi"
	MsgUnknownAction   = "Noma'lum amal"
	MsgUnknownCommand  = "Tushunmadim. Quyidagi menyudan foydalaning."
	MsgEditWhat        = "Nimani o'zgartirmoqchisiz?"
	MsgRemoved         = "Mahsulot savatdan olib tashlandi"
	MsgCartEmpty       = "Savatingiz bo'sh."
	MsgThanks          = "Xaridingiz uchun rahmat!"
	MsgShopMore        = "Boshqa mahsulotlar xarid qilishni xohlaysizmi?"
	MsgFailure         = "Xatolik yuz berdi. Iltimos, keyinroq qaytadan urinib ko'ring."
)
